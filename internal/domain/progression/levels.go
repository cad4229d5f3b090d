package progression

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLevelTable is returned when a level table is empty, does not
// start at zero XP, or is not strictly increasing.
var ErrInvalidLevelTable = errors.New("invalid level table")

// Level is one row of the level table.
type Level struct {
	Number     int    `json:"level"`
	XPRequired int    `json:"xp_required"`
	Title      string `json:"title"`
}

// LevelInfo is the position of an XP total within the level table.
type LevelInfo struct {
	Current Level
	// Next is the following level, or Current at the maximum level.
	Next Level
	// Progress is the percentage of the way from Current to Next, 0..100.
	Progress int
}

// LevelTable is an ordered list of levels with strictly increasing numbers
// and XP thresholds. The first level requires zero XP.
type LevelTable []Level

// DefaultLevels is the level table used unless one is configured.
var DefaultLevels = LevelTable{
	{1, 0, "Novice"},
	{2, 100, "Beginner"},
	{3, 250, "Apprentice"},
	{4, 500, "Student"},
	{5, 1000, "Scholar"},
	{6, 2000, "Linguist"},
	{7, 3500, "Polyglot"},
	{8, 5500, "Expert"},
	{9, 8000, "Master"},
	{10, 12000, "Sage"},
}

// NewLevelTable validates levels and returns them as a table.
func NewLevelTable(levels []Level) (LevelTable, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels", ErrInvalidLevelTable)
	}
	if levels[0].XPRequired != 0 {
		return nil, fmt.Errorf("%w: first level must require 0 XP", ErrInvalidLevelTable)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur.Number <= prev.Number || cur.XPRequired <= prev.XPRequired {
			return nil, fmt.Errorf("%w: level %d is not above level %d", ErrInvalidLevelTable, cur.Number, prev.Number)
		}
	}
	table := make(LevelTable, len(levels))
	copy(table, levels)
	return table, nil
}

// Max returns the highest level.
func (t LevelTable) Max() Level {
	return t[len(t)-1]
}

// FromXP locates total within the table. Negative totals are treated as zero.
func (t LevelTable) FromXP(total int) LevelInfo {
	if total < 0 {
		total = 0
	}

	idx := 0
	for i, lvl := range t {
		if total >= lvl.XPRequired {
			idx = i
		}
	}

	cur := t[idx]
	if idx == len(t)-1 {
		return LevelInfo{Current: cur, Next: cur, Progress: 100}
	}
	next := t[idx+1]
	span := float64(next.XPRequired - cur.XPRequired)
	progress := int(math.Round(100 * float64(total-cur.XPRequired) / span))
	return LevelInfo{Current: cur, Next: next, Progress: progress}
}

// LevelFromXP locates total within DefaultLevels.
func LevelFromXP(total int) LevelInfo {
	return DefaultLevels.FromXP(total)
}
