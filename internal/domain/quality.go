package domain

import "fmt"

// Quality is the learner's self-reported recall grade, 0 (total blank)
// through 5 (perfect).
type Quality int

// Quality bounds.
const (
	MinQuality Quality = 0
	MaxQuality Quality = 5
)

// Recall is the bucket a quality falls into. Scheduler and progression both
// read quality through Classify so the thresholds live in one place.
type Recall int

const (
	RecallAgain Recall = iota + 1 // 0-1: not recalled.
	RecallHard                    // 2: not recalled, but familiar.
	RecallGood                    // 3-4: recalled with effort.
	RecallEasy                    // 5: recalled effortlessly.
)

var recallNames = [...]string{RecallAgain: "again", RecallHard: "hard", RecallGood: "good", RecallEasy: "easy"}

// String returns the lower-case bucket name.
func (r Recall) String() string {
	if r >= RecallAgain && r <= RecallEasy {
		return recallNames[r]
	}
	return fmt.Sprintf("Recall(%d)", int(r))
}

// Remembered reports whether the bucket counts as a successful recall.
func (r Recall) Remembered() bool {
	return r == RecallGood || r == RecallEasy
}

// Classify buckets a quality. Values below the range classify as Again and
// values above as Easy; call Validate to reject them instead.
func Classify(q Quality) Recall {
	switch {
	case q <= 1:
		return RecallAgain
	case q == 2:
		return RecallHard
	case q <= 4:
		return RecallGood
	default:
		return RecallEasy
	}
}

// Validate returns ErrInvalidQuality when q is outside MinQuality..MaxQuality.
func (q Quality) Validate() error {
	if q < MinQuality || q > MaxQuality {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidQuality, int(q), MinQuality, MaxQuality)
	}
	return nil
}

// Recall is shorthand for Classify(q).
func (q Quality) Recall() Recall {
	return Classify(q)
}

// Remembered reports whether q is a successful recall (q >= 3).
func (q Quality) Remembered() bool {
	return Classify(q).Remembered()
}
