//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/postgres"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/Ymit24/language-reader-app-sub000/internal/testdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)
	return db
}

func scheduledCard(t *testing.T, ctx context.Context, cards store.CardStore, learner uuid.UUID, term string, due *time.Time, status domain.CardStatus) *domain.VocabularyCard {
	t.Helper()
	card, err := domain.NewVocabularyCard(learner, "es", term, "", status, time.Now())
	require.NoError(t, err)
	card.NextReviewAt = due
	stored, err := cards.Upsert(ctx, card)
	require.NoError(t, err)
	return stored
}

func TestCardStoreDueSelection(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cards := postgres.NewPostgresCardStore(tx, nil)
		learner := uuid.New()
		now := time.Now().UTC().Truncate(time.Microsecond)
		older := now.Add(-48 * time.Hour)
		newer := now.Add(-time.Hour)
		future := now.Add(time.Hour)

		b := scheduledCard(t, ctx, cards, learner, "beta", &newer, domain.StatusLearning2)
		a := scheduledCard(t, ctx, cards, learner, "alpha", &older, domain.StatusLearning1)
		scheduledCard(t, ctx, cards, learner, "gamma", &future, domain.StatusLearning1)
		scheduledCard(t, ctx, cards, learner, "delta", &older, domain.StatusIgnored)
		scheduledCard(t, ctx, cards, learner, "epsilon", nil, domain.StatusNew)
		scheduledCard(t, ctx, cards, uuid.New(), "alpha", &older, domain.StatusLearning1)

		due, err := cards.ListDue(ctx, learner, "es", now, 10)
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, a.ID, due[0].ID)
		assert.Equal(t, b.ID, due[1].ID)

		limited, err := cards.ListDue(ctx, learner, "es", now, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, a.ID, limited[0].ID)

		counts, err := cards.CountsByLanguage(ctx, learner, []string{"es", "fr"}, now)
		require.NoError(t, err)
		assert.Equal(t, store.LanguageCounts{Due: 2, Known: 0, Learning: 3}, counts["es"])
		assert.Equal(t, store.LanguageCounts{}, counts["fr"])
	})
}

func TestCardStoreListDueSkipsCardsInOpenSessions(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cards := postgres.NewPostgresCardStore(tx, nil)
		sessions := postgres.NewPostgresSessionStore(tx, nil)
		learner := uuid.New()
		now := time.Now().UTC().Truncate(time.Microsecond)
		due := now.Add(-time.Hour)

		held := scheduledCard(t, ctx, cards, learner, "uno", &due, domain.StatusLearning1)
		free := scheduledCard(t, ctx, cards, learner, "dos", &due, domain.StatusLearning1)

		session, err := domain.NewReviewSession(learner, "es", 1, now)
		require.NoError(t, err)
		item, err := domain.NewReviewSessionItem(session.ID, held.ID, 0)
		require.NoError(t, err)
		require.NoError(t, sessions.Create(ctx, session, []*domain.ReviewSessionItem{item}))

		listed, err := cards.ListDue(ctx, learner, "es", now, 10)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, free.ID, listed[0].ID)

		require.True(t, session.Abandon())
		require.NoError(t, sessions.Update(ctx, session))

		listed, err = cards.ListDue(ctx, learner, "es", now, 10)
		require.NoError(t, err)
		assert.Len(t, listed, 2, "abandoning a session releases its cards")
	})
}

func TestCardStoreUpsertSchedulesOnLearning(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cards := postgres.NewPostgresCardStore(tx, nil)
		learner := uuid.New()

		first := scheduledCard(t, ctx, cards, learner, "Perro", nil, domain.StatusNew)
		assert.Nil(t, first.NextReviewAt)
		assert.Equal(t, "perro", first.Term)

		again, err := domain.NewVocabularyCard(learner, "es", "perro", "Perro", domain.StatusLearning1, time.Now())
		require.NoError(t, err)
		again.NextReviewAt = nil
		updated, err := cards.Upsert(ctx, again)
		require.NoError(t, err)

		assert.Equal(t, first.ID, updated.ID, "upsert keeps the existing card")
		assert.Equal(t, domain.StatusLearning1, updated.Status)
		require.NotNil(t, updated.NextReviewAt)
	})
}

func TestSessionAndProgressRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cards := postgres.NewPostgresCardStore(tx, nil)
		sessions := postgres.NewPostgresSessionStore(tx, nil)
		progress := postgres.NewPostgresProgressStore(tx, nil)
		learner := uuid.New()
		now := time.Now().UTC().Truncate(time.Microsecond)
		due := now.Add(-time.Minute)

		card := scheduledCard(t, ctx, cards, learner, "gato", &due, domain.StatusLearning1)

		require.NoError(t, sessions.LockLearnerLanguage(ctx, learner, "es"))
		session, err := domain.NewReviewSession(learner, "es", 1, now)
		require.NoError(t, err)
		item, err := domain.NewReviewSessionItem(session.ID, card.ID, 0)
		require.NoError(t, err)
		require.NoError(t, sessions.Create(ctx, session, []*domain.ReviewSessionItem{item}))

		locked, err := sessions.GetItemForUpdate(ctx, item.ID)
		require.NoError(t, err)
		require.NoError(t, locked.Grade(4, now))
		require.NoError(t, sessions.UpdateItem(ctx, locked))

		_, err = session.RecordGrade(2.5, now)
		require.NoError(t, err)
		require.NoError(t, sessions.Update(ctx, session))

		got, err := sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionCompleted, got.Status)
		assert.Equal(t, 1, got.ReviewedCount)

		items, err := sessions.ListItems(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.Quality(4), *items[0].Quality)

		sessionCards, err := cards.ListBySession(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, sessionCards, 1)
		assert.Equal(t, card.ID, sessionCards[0].ID)

		require.NoError(t, progress.LockLearner(ctx, learner))
		_, err = progress.Get(ctx, learner)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)

		today := domain.DayOf(now, time.UTC)
		record := &domain.ProgressRecord{
			LearnerID: learner, TotalXP: 35, Level: 1, Title: "Novice",
			CurrentStreak: 1, LongestStreak: 1, LastReviewDate: today,
			TotalReviews: 1, TotalCorrect: 1, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, progress.Upsert(ctx, record))
		require.NoError(t, progress.UpsertDailyStat(ctx, &domain.DailyStat{
			LearnerID: learner, Date: today, ReviewCount: 1, CorrectCount: 1, XPEarned: 35, MinutesSpent: 3,
		}))

		stored, err := progress.Get(ctx, learner)
		require.NoError(t, err)
		assert.Equal(t, 35, stored.TotalXP)
		assert.True(t, stored.LastReviewDate.Equal(today))

		stats, err := progress.ListDailyStats(ctx, learner, today.AddDays(-6), today)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, 3, stats[0].MinutesSpent)
		assert.Equal(t, 35, stats[0].XPEarned)
	})
}
