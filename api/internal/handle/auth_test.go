package handle

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"speak-coach/api/internal/auth"
)

func callbackRedirect(t *testing.T, h *Handle, target string) *url.URL {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.AuthCallback(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func TestAuthCallbackProviderError(t *testing.T) {
	h := New(&fakeGrader{}, nil)

	loc := callbackRedirect(t, h, "/auth/callback?error=access_denied&error_description=foo")
	if loc.Path != "/login" {
		t.Fatalf("path = %q", loc.Path)
	}
	q := loc.Query()
	if q.Get("error") != "auth_failed" || q.Get("message") != "foo" {
		t.Errorf("query = %q", loc.RawQuery)
	}
}

func TestAuthCallbackMissingCode(t *testing.T) {
	h := New(&fakeGrader{}, nil)

	loc := callbackRedirect(t, h, "/auth/callback")
	if loc.Query().Get("error") != "no_code" {
		t.Errorf("query = %q", loc.RawQuery)
	}
}

func TestAuthCallbackSuccess(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("grant_type") != "pkce" {
			t.Errorf("unexpected grant_type %q", r.URL.Query().Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","expires_in":3600,"user":{"email":"a@b.c"}}`))
	}))
	defer provider.Close()

	h := New(&fakeGrader{}, auth.NewSupabase(provider.URL, "anon-key"))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc123", nil)
	w := httptest.NewRecorder()
	h.AuthCallback(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	cookies := w.Result().Cookies()
	var access, refresh bool
	for _, c := range cookies {
		switch c.Name {
		case auth.AccessTokenCookie:
			access = c.Value == "tok" && c.HttpOnly
		case auth.RefreshTokenCookie:
			refresh = c.Value == "ref"
		}
	}
	if !access || !refresh {
		t.Errorf("session cookies not set: %+v", cookies)
	}
}

func TestAuthCallbackRejectedExchange(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer provider.Close()

	h := New(&fakeGrader{}, auth.NewSupabase(provider.URL, "anon-key"))

	loc := callbackRedirect(t, h, "/auth/callback?code=bad")
	if loc.Query().Get("error") != "auth_failed" {
		t.Errorf("query = %q", loc.RawQuery)
	}
}

func TestAuthCallbackEmptySession(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer provider.Close()

	h := New(&fakeGrader{}, auth.NewSupabase(provider.URL, "anon-key"))

	loc := callbackRedirect(t, h, "/auth/callback?code=abc")
	if loc.Query().Get("error") != "no_session" {
		t.Errorf("query = %q", loc.RawQuery)
	}
}

func TestAuthCallbackTransportException(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	providerURL := provider.URL
	provider.Close() // nothing listening anymore

	h := New(&fakeGrader{}, auth.NewSupabase(providerURL, "anon-key"))

	loc := callbackRedirect(t, h, "/auth/callback?code=abc")
	if loc.Query().Get("error") != "exception" {
		t.Errorf("query = %q", loc.RawQuery)
	}
}
