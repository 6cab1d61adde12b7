package handle

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const questionTimeout = 60 * time.Second

// GenerateQuestion handles POST /api/generate-question. No body; returns one
// freshly generated practice question.
func (h *Handle) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), questionTimeout)
	defer cancel()

	q, err := h.eng.GenerateQuestion(ctx)
	if err != nil {
		slog.Error("question generation failed", "error", err)
		writeError(w, "question generation failed", err)
		return
	}

	q = strings.TrimSpace(q)
	slog.Info("question generated", "length", len(q))
	writeJSON(w, http.StatusOK, map[string]string{"question": q})
}
