package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateQuestionVaries(t *testing.T) {
	eng := &fakeGrader{questions: []string{
		"  Some people prefer to study alone. Others prefer groups. Which do you prefer and why?\n",
		"Do you agree or disagree that technology has made people less social?",
	}}
	h := New(eng, nil)

	var got []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-question", nil)
		w := httptest.NewRecorder()
		h.GenerateQuestion(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var out struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out.Question == "" {
			t.Fatal("empty question")
		}
		if out.Question != strings.TrimSpace(out.Question) {
			t.Errorf("question not trimmed: %q", out.Question)
		}
		got = append(got, out.Question)
	}
	if got[0] == got[1] {
		t.Error("successive questions should differ")
	}
}

func TestGenerateQuestionFailure(t *testing.T) {
	eng := &fakeGrader{questionErr: errors.New("model unavailable")}
	h := New(eng, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-question", nil)
	w := httptest.NewRecorder()
	h.GenerateQuestion(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var out struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Error == "" || out.Details == "" {
		t.Errorf("unexpected error object: %+v", out)
	}
}
