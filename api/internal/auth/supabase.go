package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Supabase exchanges authorization codes for sessions against the project's
// GoTrue endpoint. Construct once and share; it holds only an HTTP client.
type Supabase struct {
	URL     string
	AnonKey string
	httpc   *http.Client
}

func NewSupabase(url, anonKey string) *Supabase {
	return &Supabase{
		URL:     strings.TrimRight(strings.TrimSpace(url), "/"),
		AnonKey: strings.TrimSpace(anonKey),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		Email string `json:"email"`
	} `json:"user"`
}

// ProviderError is a non-2xx answer from the auth provider, as opposed to a
// transport failure.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider %d: %s", e.Status, e.Body)
}

// ExchangeCode trades a PKCE authorization code (plus the verifier the
// client stored in its cookie) for a session.
func (s *Supabase) ExchangeCode(ctx context.Context, code, verifier string) (Session, error) {
	body := map[string]string{
		"auth_code":     code,
		"code_verifier": verifier,
	}
	payload, _ := json.Marshal(body)

	url := s.URL + "/auth/v1/token?grant_type=pkce"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.AnonKey)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Session{}, &ProviderError{Status: resp.StatusCode, Body: string(b)}
	}

	var sess Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}
