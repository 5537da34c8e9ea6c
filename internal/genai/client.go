// Package genai builds quiz generation requests and strictly validates the
// structured responses of the Gemini generateContent API.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/quiz"
)

// Client performs a single request/response exchange per Generate call.
// Calls are not idempotent (two calls may yield different quizzes for the
// same input) and are never silently repeated.
type Client struct {
	cfg    *config.AIConfig
	client *http.Client
}

func NewClient(cfg *config.AIConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// quizSchema constrains the model output: title, one-line description,
// difficulty, and questions of exactly 4 options with one correct index.
const quizSchema = `{
  "type": "OBJECT",
  "properties": {
    "title": {
      "type": "STRING",
      "description": "A creative and relevant title for the quiz based on the provided context."
    },
    "description": {
      "type": "STRING",
      "description": "A concise, one-line summary of the quiz's content."
    },
    "difficulty": {
      "type": "STRING",
      "description": "The estimated difficulty of the quiz. Must be one of 'Easy', 'Medium', or 'Hard'."
    },
    "questions": {
      "type": "ARRAY",
      "description": "An array of quiz questions.",
      "items": {
        "type": "OBJECT",
        "properties": {
          "questionText": {
            "type": "STRING",
            "description": "The text of the multiple-choice question."
          },
          "options": {
            "type": "ARRAY",
            "description": "An array of 4 possible answers for the question.",
            "items": {"type": "STRING"}
          },
          "correctAnswerIndex": {
            "type": "INTEGER",
            "description": "The 0-based index of the correct answer in the 'options' array."
          }
        },
        "required": ["questionText", "options", "correctAnswerIndex"]
      }
    }
  },
  "required": ["title", "description", "questions", "difficulty"]
}`

// Generate asks the backend for a quiz over the given content and validates
// the structured response. The caller checks content non-emptiness; this
// method attempts the call regardless.
func (c *Client) Generate(ctx context.Context, content string, numQuestions int, difficulty *quiz.Difficulty) (quiz.GeneratedQuiz, error) {
	if !c.cfg.IsEnabled() {
		return quiz.GeneratedQuiz{}, ErrNotConfigured
	}

	text, err := c.call(ctx, buildPrompt(content, numQuestions, difficulty))
	if err != nil {
		return quiz.GeneratedQuiz{}, err
	}

	var gen quiz.GeneratedQuiz
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &gen); err != nil {
		return quiz.GeneratedQuiz{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validateGenerated(gen); err != nil {
		return quiz.GeneratedQuiz{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return gen, nil
}

func buildPrompt(content string, numQuestions int, difficulty *quiz.Difficulty) string {
	difficultyInstruction := "2. Based on the complexity of the context, determine the most appropriate difficulty level for the quiz and include it in the 'difficulty' field. The value must be one of: 'Easy', 'Medium', or 'Hard'."
	if difficulty != nil {
		difficultyInstruction = fmt.Sprintf("2. The difficulty level must be exactly %s.", *difficulty)
	}

	return fmt.Sprintf(`Based on the provided context, generate a multiple-choice quiz.

**Context:**
%s

**Instructions:**
1. Create a quiz with exactly %d questions.
%s
3. Each question must have exactly 4 options.
4. Crucially, generate a concise, one-line description that summarizes the quiz content.
5. Ensure the questions are relevant to the provided context.
6. Provide the output in the specified JSON format.
7. **IMPORTANT**: Do not create questions that refer to the document, the act of studying, or the source material itself. The questions must be about the subject matter directly. Avoid phrases like "According to the provided text...", "Based on the document...", "from the content", "by the given content", "by the provided file", "self study", and similar references. Also, do not include metadata from the document like course names or course codes in the questions or answers.`,
		content, numQuestions, difficultyInstruction)
}

// call makes one request to the generateContent endpoint and returns the
// first candidate's text.
func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   json.RawMessage(quizSchema),
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", c.cfg.ModelEndpoint(), c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classify(resp.StatusCode, body)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(geminiResp.Candidates) == 0 {
		return "", &UnknownError{Msg: "empty response from backend"}
	}
	if geminiResp.Candidates[0].FinishReason == "SAFETY" {
		return "", ErrSafetyRejected
	}
	if len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &UnknownError{Msg: "empty response from backend"}
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// classify maps backend-reported failures onto the error taxonomy by a
// small set of known signatures.
func classify(status int, body []byte) error {
	msg := string(body)
	switch {
	case strings.Contains(msg, "SAFETY"):
		return ErrSafetyRejected
	case status == http.StatusBadRequest:
		return ErrRequestTooLarge
	case status == http.StatusTooManyRequests,
		status >= http.StatusInternalServerError:
		return ErrBackendUnavailable
	default:
		return &UnknownError{Msg: fmt.Sprintf("status %d: %s", status, strings.TrimSpace(msg))}
	}
}

func validateGenerated(gen quiz.GeneratedQuiz) error {
	if len(gen.Questions) == 0 {
		return fmt.Errorf("missing or empty questions array")
	}
	if _, ok := quiz.ParseDifficulty(string(gen.Difficulty)); !ok {
		return fmt.Errorf("missing or unrecognized difficulty %q", gen.Difficulty)
	}
	for i, q := range gen.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("question %d: empty text", i)
		}
		if len(q.Options) != quiz.OptionsPerQuestion {
			return fmt.Errorf("question %d: %d options, want %d", i, len(q.Options), quiz.OptionsPerQuestion)
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= quiz.OptionsPerQuestion {
			return fmt.Errorf("question %d: correct answer index %d out of range", i, q.CorrectAnswerIndex)
		}
	}
	return nil
}
