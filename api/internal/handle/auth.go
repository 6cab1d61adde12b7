package handle

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"speak-coach/api/internal/auth"
)

// codeVerifierCookie is where the browser client parks its PKCE verifier
// before redirecting through the auth provider.
const codeVerifierCookie = "sb-code-verifier"

// AuthCallback handles GET /auth/callback: exchanges the authorization code
// for a session and redirects home, or to /login with an error kind.
func (h *Handle) AuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		slog.Warn("auth callback rejected by provider", "error", e)
		redirectLogin(w, r, "auth_failed", q.Get("error_description"))
		return
	}

	code := q.Get("code")
	if code == "" {
		redirectLogin(w, r, "no_code", "")
		return
	}

	if h.supa == nil {
		redirectLogin(w, r, "exception", "auth provider not configured")
		return
	}

	var verifier string
	if c, err := r.Cookie(codeVerifierCookie); err == nil {
		verifier = c.Value
	}

	sess, err := h.supa.ExchangeCode(r.Context(), code, verifier)
	if err != nil {
		var pe *auth.ProviderError
		if errors.As(err, &pe) {
			slog.Error("auth code exchange rejected", "status", pe.Status)
			redirectLogin(w, r, "auth_failed", "")
			return
		}
		slog.Error("auth code exchange failed", "error", err)
		redirectLogin(w, r, "exception", err.Error())
		return
	}

	if sess.AccessToken == "" {
		redirectLogin(w, r, "no_session", "")
		return
	}

	setSessionCookie(w, auth.AccessTokenCookie, sess.AccessToken, sess.ExpiresIn)
	setSessionCookie(w, auth.RefreshTokenCookie, sess.RefreshToken, 0)

	slog.Info("session created", "email", sess.User.Email)
	http.Redirect(w, r, "/", http.StatusFound)
}

func redirectLogin(w http.ResponseWriter, r *http.Request, kind, message string) {
	v := url.Values{}
	v.Set("error", kind)
	if message != "" {
		v.Set("message", message)
	}
	http.Redirect(w, r, "/login?"+v.Encode(), http.StatusFound)
}

func setSessionCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
