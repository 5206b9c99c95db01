package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	sessionCookieName = "MOTO_WEB_SESSION"
	// sessionTTL bounds a session from its creation, whatever its activity.
	sessionTTL = 30 * 24 * time.Hour
)

var errBadSession = errors.New("session: invalid cookie")

// SessionData is the signed cookie payload: language choice, CSRF token and a
// one-shot flash message. Nothing else is kept about the shopper.
type SessionData struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	Flash     string    `json:"flash,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	dirty bool
}

var (
	sessionSignKey []byte
	sessionSecure  bool
)

func init() {
	key := os.Getenv("MOTO_WEB_SESSION_SIGNING_KEY")
	if key == "" {
		sessionSignKey = make([]byte, 32)
		if _, err := rand.Read(sessionSignKey); err != nil {
			log.Error().Err(err).Msg("session: failed to generate signing key")
			sessionSignKey = []byte("insecure-dev-key-please-set-MOTO_WEB_SESSION_SIGNING_KEY")
		}
		log.Debug().Msg("session: using ephemeral signing key; set MOTO_WEB_SESSION_SIGNING_KEY for production")
	} else {
		sessionSignKey = []byte(key)
	}
	sessionSecure = strings.ToLower(os.Getenv("MOTO_WEB_ENV")) == "prod"
}

func newSession(now time.Time) *SessionData {
	return &SessionData{
		ID:        randID(),
		CSRFToken: newCSRFToken(),
		CreatedAt: now,
		UpdatedAt: now,
		dirty:     true,
	}
}

// Session loads the signed session cookie, starting a new session when it is
// missing, tampered with or expired.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		sd, err := readSessionCookie(r, now)
		if err != nil {
			sd = newSession(now)
		}
		ctx := context.WithValue(r.Context(), keySession, sd)
		rw := NewResponseRecorder(w)
		// the cookie has to go out with the headers
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty {
				writeSessionCookie(w, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		if !rw.wrote && sd.dirty {
			writeSessionCookie(w, sd)
		}
	})
}

// GetSession returns the request session, or an empty one outside Session.
func GetSession(r *http.Request) *SessionData {
	if sd, ok := r.Context().Value(keySession).(*SessionData); ok {
		return sd
	}
	return &SessionData{}
}

// MarkDirty schedules the cookie to be rewritten with the response.
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// SetFlash stores a one-shot message shown on the next page.
func (s *SessionData) SetFlash(msg string) {
	s.Flash = msg
	s.MarkDirty()
}

// TakeFlash returns and clears the pending flash message.
func (s *SessionData) TakeFlash() string {
	msg := s.Flash
	if msg != "" {
		s.Flash = ""
		s.MarkDirty()
	}
	return msg
}

func readSessionCookie(r *http.Request, now time.Time) (*SessionData, error) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, err
	}
	payload, err := verify(c.Value)
	if err != nil {
		return nil, err
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil || sd.ID == "" {
		return nil, errBadSession
	}
	if now.Sub(sd.CreatedAt) > sessionTTL {
		return nil, errBadSession
	}
	return &sd, nil
}

func writeSessionCookie(w http.ResponseWriter, sd *SessionData) {
	b, _ := json.Marshal(sd)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sign(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   sessionSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  sd.CreatedAt.Add(sessionTTL),
	})
}

// sign encodes payload as base64(payload).base64(hmac).
func sign(payload []byte) string {
	mac := hmac.New(sha256.New, sessionSignKey)
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(value string) ([]byte, error) {
	p, s, ok := strings.Cut(value, ".")
	if !ok {
		return nil, errBadSession
	}
	payload, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return nil, errBadSession
	}
	sig, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errBadSession
	}
	mac := hmac.New(sha256.New, sessionSignKey)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, errBadSession
	}
	return payload, nil
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
