package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/kv"
	"github.com/quizforge/quizforge/internal/quiz"
)

func TestSaveLoadClear(t *testing.T) {
	s := NewStore(kv.NewMemoryStore())

	assert.Nil(t, s.Load())

	d := Draft{
		InputMode:        "topic",
		Topic:            "Go concurrency",
		CustomTitle:      "Channels 101",
		NumQuestions:     10,
		Difficulty:       quiz.DifficultyMedium,
		TimeLimitMinutes: 15,
	}
	require.NoError(t, s.Save(d))

	got := s.Load()
	require.NotNil(t, got)
	assert.Equal(t, d, *got)

	require.NoError(t, s.Clear())
	assert.Nil(t, s.Load())
}

func TestSaveOverwritesSlot(t *testing.T) {
	s := NewStore(kv.NewMemoryStore())
	require.NoError(t, s.Save(Draft{InputMode: "topic", Topic: "first"}))
	require.NoError(t, s.Save(Draft{InputMode: "file", FileName: "notes.pdf", FileContent: "extracted"}))

	got := s.Load()
	require.NotNil(t, got)
	assert.Equal(t, "file", got.InputMode)
	assert.Equal(t, "notes.pdf", got.FileName)
}

func TestLoadCorruptIsNil(t *testing.T) {
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Set("quizforge_draft", []byte("{not json")))
	s := NewStore(backend)
	assert.Nil(t, s.Load())
}
