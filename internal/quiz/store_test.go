package quiz_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/db"
	"github.com/quizforge/quizforge/internal/quiz"
)

const owner = "alice@example.com"

func validQuiz(id string) quiz.Quiz {
	return quiz.Quiz{
		ID:         id,
		Topic:      "Topic",
		Title:      "Title",
		Difficulty: quiz.DifficultyEasy,
		CreatedAt:  "Jan 2, 2026",
		Questions: []quiz.Question{{
			QuestionText:       "Q",
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: 2,
		}},
		TimeLimitMinutes: 5,
	}
}

func openSQLStore(t *testing.T) quiz.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "test.db"))
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return quiz.NewSQLStore(dbh, "sqlite")
}

func stores(t *testing.T) map[string]quiz.Store {
	return map[string]quiz.Store{
		"memory": quiz.NewInMemoryStore(),
		"sqlite": openSQLStore(t),
	}
}

func TestCreateListRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			list, err := store.List(ctx, owner)
			require.NoError(t, err)
			assert.Empty(t, list)

			require.NoError(t, store.Create(ctx, owner, validQuiz("2026-01-01T00:00:00Z")))
			require.NoError(t, store.Create(ctx, owner, validQuiz("2026-02-01T00:00:00Z")))

			list, err = store.List(ctx, owner)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "2026-02-01T00:00:00Z", list[0].ID, "newest first")
			assert.Equal(t, 5, list[0].TimeLimitMinutes)
			require.Len(t, list[0].Questions, 1)
			assert.Equal(t, 2, list[0].Questions[0].CorrectAnswerIndex)
			assert.Nil(t, list[0].LastScore)
		})
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			bad := validQuiz("x")
			bad.Questions[0].Options = []string{"a", "b"}
			assert.Error(t, store.Create(context.Background(), owner, bad))
		})
	}
}

func TestUpdateScore(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Create(ctx, owner, validQuiz("q1")))

			require.NoError(t, store.UpdateScore(ctx, owner, "q1", 100.0/3.0))
			list, err := store.List(ctx, owner)
			require.NoError(t, err)
			require.NotNil(t, list[0].LastScore)
			assert.InDelta(t, 100.0/3.0, *list[0].LastScore, 1e-9, "full precision stored")

			assert.ErrorIs(t, store.UpdateScore(ctx, owner, "missing", 50), quiz.ErrNotFound)
			assert.ErrorIs(t, store.UpdateScore(ctx, "bob@example.com", "q1", 50), quiz.ErrNotFound)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Create(ctx, owner, validQuiz("q1")))

			assert.ErrorIs(t, store.Delete(ctx, "bob@example.com", "q1"), quiz.ErrNotFound)
			require.NoError(t, store.Delete(ctx, owner, "q1"))
			assert.ErrorIs(t, store.Delete(ctx, owner, "q1"), quiz.ErrNotFound)

			list, err := store.List(ctx, owner)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestOwnershipIsolation(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Create(ctx, owner, validQuiz("q1")))

			list, err := store.List(ctx, "bob@example.com")
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestValidate(t *testing.T) {
	q := validQuiz("q")
	assert.NoError(t, q.Validate())

	empty := q
	empty.Questions = nil
	assert.Error(t, empty.Validate())

	badIdx := validQuiz("q")
	badIdx.Questions[0].CorrectAnswerIndex = 4
	assert.Error(t, badIdx.Validate())

	badDiff := validQuiz("q")
	badDiff.Difficulty = "Impossible"
	assert.Error(t, badDiff.Validate())
}
