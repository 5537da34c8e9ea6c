package author

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/quizforge/quizforge/internal/draft"
	"github.com/quizforge/quizforge/internal/extract"
	"github.com/quizforge/quizforge/internal/quiz"
)

var (
	// ErrEmptyInput means the resolved content was blank after trimming;
	// the generation backend is never called in that case.
	ErrEmptyInput = errors.New("author: no content to generate from")
	// ErrFileNotReady means file mode was selected but extraction has not
	// produced usable text yet.
	ErrFileNotReady = errors.New("author: file not extracted yet")
)

// Generator is the slice of the generation client the controller needs.
type Generator interface {
	Generate(ctx context.Context, content string, numQuestions int, difficulty *quiz.Difficulty) (quiz.GeneratedQuiz, error)
}

// FileState tracks the asynchronous extraction of an attached file.
type FileState string

const (
	FileIdle       FileState = "idle"
	FileExtracting FileState = "extracting"
	FileReady      FileState = "ready"
	FileError      FileState = "error"
)

const (
	InputModeTopic = "topic"
	InputModeFile  = "file"
)

func emptyForm() draft.Draft {
	return draft.Draft{
		InputMode:    InputModeTopic,
		NumQuestions: 10,
		Difficulty:   quiz.DifficultyMedium,
	}
}

// Controller owns the live authoring form. Dirty means the current snapshot
// differs from the baseline captured at mount, last save, or last discard.
type Controller struct {
	mu        sync.Mutex
	form      draft.Draft
	baseline  draft.Draft
	pending   *draft.Draft
	fileState FileState
	fileErr   string
	attachGen int

	drafts    *draft.Store
	gen       Generator
	extractFn func(extract.File) (string, error)
	now       func() time.Time
}

// NewController loads any saved draft and holds it for the caller to restore
// or dismiss before editing begins.
func NewController(drafts *draft.Store, gen Generator) *Controller {
	c := &Controller{
		form:      emptyForm(),
		baseline:  emptyForm(),
		fileState: FileIdle,
		drafts:    drafts,
		gen:       gen,
		extractFn: extract.Extract,
		now:       time.Now,
	}
	c.pending = drafts.Load()
	return c
}

// PendingDraft returns the saved draft awaiting a restore-or-dismiss choice,
// or nil when there is none.
func (c *Controller) PendingDraft() *draft.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	d := *c.pending
	return &d
}

// RestoreDraft adopts the pending draft as both the live form and the dirty
// baseline.
func (c *Controller) RestoreDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return
	}
	c.form = *c.pending
	c.baseline = c.form
	c.pending = nil
	c.fileState = FileIdle
	c.fileErr = ""
	if c.form.InputMode == InputModeFile && c.form.FileContent != "" {
		c.fileState = FileReady
	}
}

// DismissDraft drops the pending draft and clears the stored slot; the
// baseline stays the empty form.
func (c *Controller) DismissDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return
	}
	c.pending = nil
	_ = c.drafts.Clear()
}

func (c *Controller) Snapshot() draft.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form != c.baseline
}

func (c *Controller) FileState() FileState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileState
}

func (c *Controller) FileError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileErr
}

func (c *Controller) SetInputMode(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mode == InputModeTopic || mode == InputModeFile {
		c.form.InputMode = mode
	}
}

func (c *Controller) SetTopic(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Topic = topic
}

func (c *Controller) SetCustomTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.CustomTitle = title
}

func (c *Controller) SetAdditionalContext(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.AdditionalContext = text
}

func (c *Controller) SetNumQuestions(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.NumQuestions = n
}

func (c *Controller) SetDifficulty(d quiz.Difficulty) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Difficulty = d
}

func (c *Controller) SetTimeLimit(minutes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.TimeLimitMinutes = minutes
}

// AttachFile kicks off extraction in the background. A newer attachment
// supersedes an older one still in flight; the stale result is dropped.
func (c *Controller) AttachFile(name string, data []byte) {
	c.mu.Lock()
	c.attachGen++
	gen := c.attachGen
	c.form.InputMode = InputModeFile
	c.form.FileName = name
	c.form.FileContent = ""
	c.fileState = FileExtracting
	c.fileErr = ""
	c.mu.Unlock()

	go func() {
		text, err := c.extractFn(extract.File{Name: name, Data: data})
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.attachGen {
			return
		}
		if err != nil {
			c.fileState = FileError
			c.fileErr = err.Error()
			return
		}
		c.form.FileContent = text
		c.fileState = FileReady
	}()
}

// SaveDraft writes the current form to the draft slot and resets the dirty
// baseline to it.
func (c *Controller) SaveDraft() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.drafts.Save(c.form); err != nil {
		return err
	}
	c.baseline = c.form
	return nil
}

// DiscardDraft clears the slot and resets the form to empty.
func (c *Controller) DiscardDraft() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.drafts.Clear()
	c.form = emptyForm()
	c.baseline = c.form
	c.fileState = FileIdle
	c.fileErr = ""
	return err
}

// Submit resolves content from the form, calls the generation backend, and
// returns a fully populated quiz. On failure the form keeps every entered
// value so the user can retry.
func (c *Controller) Submit(ctx context.Context) (quiz.Quiz, error) {
	c.mu.Lock()
	form := c.form
	state := c.fileState
	c.mu.Unlock()

	var content, topic string
	var difficulty *quiz.Difficulty
	switch form.InputMode {
	case InputModeFile:
		if state != FileReady {
			return quiz.Quiz{}, ErrFileNotReady
		}
		content = form.FileContent
		topic = strings.TrimSuffix(form.FileName, filepath.Ext(form.FileName))
	default:
		content = form.Topic
		if extra := strings.TrimSpace(form.AdditionalContext); extra != "" {
			content += "\n\nAdditional context provided by the user:\n" + extra
		}
		topic = form.Topic
		d := form.Difficulty
		difficulty = &d
	}
	if strings.TrimSpace(content) == "" {
		return quiz.Quiz{}, ErrEmptyInput
	}

	generated, err := c.gen.Generate(ctx, content, form.NumQuestions, difficulty)
	if err != nil {
		return quiz.Quiz{}, err
	}

	title := generated.Title
	if t := strings.TrimSpace(form.CustomTitle); t != "" {
		title = t
	}
	now := c.now()
	q := quiz.Quiz{
		ID:               now.UTC().Format(time.RFC3339Nano),
		Topic:            topic,
		Title:            title,
		Description:      generated.Description,
		Difficulty:       generated.Difficulty,
		CreatedAt:        now.Format("Jan 2, 2006"),
		Questions:        generated.Questions,
		TimeLimitMinutes: form.TimeLimitMinutes,
	}

	c.mu.Lock()
	_ = c.drafts.Clear()
	c.form = emptyForm()
	c.baseline = c.form
	c.fileState = FileIdle
	c.fileErr = ""
	c.mu.Unlock()
	return q, nil
}
