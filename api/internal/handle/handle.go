package handle

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/generative-ai-go/genai"

	"speak-coach/api/internal/auth"
)

// Grader is the generative engine behind the API.
type Grader interface {
	Grade(ctx context.Context, history []*genai.Content, parts []genai.Part) (string, error)
	GenerateQuestion(ctx context.Context) (string, error)
}

type Handle struct {
	eng  Grader
	supa *auth.Supabase // nil when the auth provider is not configured
}

func New(eng Grader, supa *auth.Supabase) *Handle {
	return &Handle{
		eng:  eng,
		supa: supa,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the structured failure object. Every handler fails whole:
// no partial responses, no retries beyond the engine's own.
func writeError(w http.ResponseWriter, msg string, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   msg,
		"details": err.Error(),
	})
}
