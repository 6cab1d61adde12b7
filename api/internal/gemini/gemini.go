package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"speak-coach/api/internal/grading"
	"speak-coach/api/internal/util"
)

// Engine talks to the Gemini API. It is constructed once at startup and
// passed to the handlers; the underlying client is created per call, so the
// engine itself holds no connection state.
type Engine struct {
	APIKey        string
	GradingModel  string
	QuestionModel string
}

func New(apiKey, gradingModel, questionModel string) *Engine {
	return &Engine{
		APIKey:        strings.TrimSpace(apiKey),
		GradingModel:  strings.TrimSpace(gradingModel),
		QuestionModel: strings.TrimSpace(questionModel),
	}
}

func (e *Engine) Name() string { return "gemini" }

// Grade submits the assembled parts as one chat turn on top of the supplied
// history and returns the model's feedback text.
func (e *Engine) Grade(ctx context.Context, history []*genai.Content, parts []genai.Part) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	if len(parts) == 0 {
		return "", errors.New("gemini grade: no content parts")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.GradingModel)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}

	cs := m.StartChat()
	cs.History = history

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := cs.SendMessage(ctx, parts...)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		txt := responseText(resp)
		if txt == "" {
			return "", fmt.Errorf("gemini grade: empty response")
		}
		return txt, nil
	}
	return "", lastErr
}

// GenerateQuestion asks for one fresh practice question at elevated sampling
// randomness so successive calls diverge.
func (e *Engine) GenerateQuestion(ctx context.Context) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.QuestionModel)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(1.5),
		TopP:        ptrFloat32(0.95),
		TopK:        ptrInt32(40),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := m.GenerateContent(ctx, genai.Text(grading.QuestionPrompt))
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		q := util.StripCodeFences(responseText(resp))
		if q == "" {
			return "", fmt.Errorf("gemini question: empty response")
		}
		return q, nil
	}
	return "", lastErr
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		break
	}
	return strings.TrimSpace(b.String())
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
