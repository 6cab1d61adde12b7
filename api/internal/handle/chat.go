package handle

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"speak-coach/api/internal/grading"
)

const (
	maxUploadBytes = 32 << 20
	gradeTimeout   = 180 * time.Second
)

// Chat handles POST /api/chat: multipart form with optional "message" text,
// optional "history" JSON, and zero or more "files" attachments (question
// material and response audio, order-preserving).
func (h *Handle) Chat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, "bad multipart form", err)
		return
	}

	message := r.FormValue("message")

	// Malformed history is logged and treated as a fresh session rather
	// than failing the request.
	history, err := grading.DecodeHistory(r.FormValue("history"))
	if err != nil {
		slog.Error("failed to parse history, starting fresh session", "error", err)
		history = nil
	}

	var atts []grading.Attachment
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				writeError(w, "cannot open uploaded file", err)
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				writeError(w, "cannot read uploaded file", err)
				return
			}
			atts = append(atts, grading.Attachment{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	slog.Info("grading request", "message_len", len(message), "files", len(atts), "history_turns", len(history))

	parts := grading.AssembleParts(message, atts, len(history) == 0)

	ctx, cancel := context.WithTimeout(r.Context(), gradeTimeout)
	defer cancel()

	text, err := h.eng.Grade(ctx, history, parts)
	if err != nil {
		slog.Error("grading failed", "error", err)
		writeError(w, "grading failed", err)
		return
	}

	slog.Info("grading response", "length", len(text))
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
