package review_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/events"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/review"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memState is the shared in-memory backing of the fake repositories.
type memState struct {
	mu       sync.Mutex
	cards    map[uuid.UUID]domain.VocabularyCard
	sessions map[uuid.UUID]domain.ReviewSession
	items    map[uuid.UUID]domain.ReviewSessionItem
	progress map[uuid.UUID]domain.ProgressRecord
	stats    map[string]domain.DailyStat

	listDueErr      error
	upsertStatErr   error
	updateErr       error
	updateCalls     int
	lockedLanguages []string
}

func newMemState() *memState {
	return &memState{
		cards:    make(map[uuid.UUID]domain.VocabularyCard),
		sessions: make(map[uuid.UUID]domain.ReviewSession),
		items:    make(map[uuid.UUID]domain.ReviewSessionItem),
		progress: make(map[uuid.UUID]domain.ProgressRecord),
		stats:    make(map[string]domain.DailyStat),
	}
}

func statKey(learnerID uuid.UUID, day domain.Day) string {
	return learnerID.String() + "/" + day.String()
}

type memCardRepo struct {
	st *memState
	db *sql.DB
}

func (r *memCardRepo) ListDue(
	_ context.Context,
	learnerID uuid.UUID,
	language string,
	now time.Time,
	limit int,
) ([]*domain.VocabularyCard, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.listDueErr != nil {
		return nil, r.st.listDueErr
	}
	held := make(map[uuid.UUID]bool)
	for _, item := range r.st.items {
		if r.st.sessions[item.SessionID].Status == domain.SessionInProgress {
			held[item.CardID] = true
		}
	}
	var due []*domain.VocabularyCard
	for _, c := range r.st.cards {
		if c.LearnerID == learnerID && c.Language == language && c.IsDue(now) && !held[c.ID] {
			card := c
			due = append(due, &card)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(*due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(*due[j].NextReviewAt)
		}
		return due[i].ID.String() < due[j].ID.String()
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *memCardRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]*domain.VocabularyCard, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.VocabularyCard
	for _, item := range r.st.items {
		if item.SessionID == sessionID {
			card := r.st.cards[item.CardID]
			out = append(out, &card)
		}
	}
	return out, nil
}

func (r *memCardRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*domain.VocabularyCard, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return &c, nil
}

func (r *memCardRepo) UpdateSchedule(_ context.Context, card *domain.VocabularyCard) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	r.st.cards[card.ID] = *card
	return nil
}

func (r *memCardRepo) WithTx(*sql.Tx) review.CardRepository { return r }
func (r *memCardRepo) DB() *sql.DB                        { return r.db }

type memSessionRepo struct {
	st *memState
}

func (r *memSessionRepo) LockLearnerLanguage(_ context.Context, learnerID uuid.UUID, language string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.lockedLanguages = append(r.st.lockedLanguages, learnerID.String()+":"+language)
	return nil
}

func (r *memSessionRepo) Create(
	_ context.Context,
	session *domain.ReviewSession,
	items []*domain.ReviewSessionItem,
) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.sessions[session.ID] = *session
	for _, item := range items {
		r.st.items[item.ID] = *item
	}
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return &s, nil
}

func (r *memSessionRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	return r.GetByID(ctx, id)
}

func (r *memSessionRepo) ListItems(_ context.Context, sessionID uuid.UUID) ([]*domain.ReviewSessionItem, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.ReviewSessionItem
	for _, item := range r.st.items {
		if item.SessionID == sessionID {
			i := item
			out = append(out, &i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memSessionRepo) GetItemForUpdate(_ context.Context, id uuid.UUID) (*domain.ReviewSessionItem, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	item, ok := r.st.items[id]
	if !ok {
		return nil, store.ErrSessionItemNotFound
	}
	return &item, nil
}

func (r *memSessionRepo) UpdateItem(_ context.Context, item *domain.ReviewSessionItem) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.items[item.ID] = *item
	return nil
}

func (r *memSessionRepo) Update(_ context.Context, session *domain.ReviewSession) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.updateErr != nil {
		return r.st.updateErr
	}
	r.st.updateCalls++
	r.st.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) WithTx(*sql.Tx) review.SessionRepository { return r }

type memProgressRepo struct {
	st *memState
}

func (r *memProgressRepo) LockLearner(context.Context, uuid.UUID) error { return nil }

func (r *memProgressRepo) Get(_ context.Context, learnerID uuid.UUID) (*domain.ProgressRecord, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p, ok := r.st.progress[learnerID]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	return &p, nil
}

func (r *memProgressRepo) Upsert(_ context.Context, record *domain.ProgressRecord) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.progress[record.LearnerID] = *record
	return nil
}

func (r *memProgressRepo) GetDailyStat(
	_ context.Context,
	learnerID uuid.UUID,
	day domain.Day,
) (*domain.DailyStat, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.stats[statKey(learnerID, day)]
	if !ok {
		return nil, store.ErrDailyStatNotFound
	}
	return &s, nil
}

func (r *memProgressRepo) UpsertDailyStat(_ context.Context, stat *domain.DailyStat) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.upsertStatErr != nil {
		return r.st.upsertStatErr
	}
	r.st.stats[statKey(stat.LearnerID, stat.Date)] = *stat
	return nil
}

func (r *memProgressRepo) WithTx(*sql.Tx) review.ProgressRepository { return r }

// MockEventEmitter is a mock implementation of events.EventEmitter
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.ProgressEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// testClock is a manually advanced clock.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fixture wires a review service over in-memory repositories and a sqlmock
// database that only sees transaction boundaries.
type fixture struct {
	st      *memState
	sqlMock sqlmock.Sqlmock
	clock   *testClock
	emitter *MockEventEmitter
	service review.ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sqlMock.ExpectationsWereMet())
		_ = db.Close()
	})

	st := newMemState()
	clock := &testClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	emitter := &MockEventEmitter{}

	svc := review.NewReviewService(
		&memCardRepo{st: st, db: db},
		&memSessionRepo{st: st},
		&memProgressRepo{st: st},
		mustSRS(t),
		nil,
		emitter,
		review.Config{DefaultLimit: 20, MaxLimit: 100, Languages: []string{"de", "fr"}, Now: clock.Now},
		nil,
	)

	return &fixture{st: st, sqlMock: sqlMock, clock: clock, emitter: emitter, service: svc}
}

// addDueCard seeds a learning card that came due an hour before the clock.
func (f *fixture) addDueCard(t *testing.T, learnerID uuid.UUID, language, term string, dueOffset time.Duration) *domain.VocabularyCard {
	t.Helper()
	card, err := domain.NewVocabularyCard(learnerID, language, term, term, domain.StatusLearning1, f.clock.Now())
	require.NoError(t, err)
	due := f.clock.Now().Add(-time.Hour + dueOffset)
	card.NextReviewAt = &due
	f.st.mu.Lock()
	f.st.cards[card.ID] = *card
	f.st.mu.Unlock()
	return card
}

func (f *fixture) expectCommit() {
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
}
