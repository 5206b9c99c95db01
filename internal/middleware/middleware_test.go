package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestWeakETagMatches(t *testing.T) {
	et := WeakETag([]byte("catalog"))
	require.True(t, strings.HasPrefix(et, `W/"`))
	require.Equal(t, et, WeakETag([]byte("catalog")))
	require.NotEqual(t, et, WeakETag([]byte("catalogue")))

	require.True(t, MatchETag(et, et))
	require.True(t, MatchETag(`"x", `+strings.TrimPrefix(et, "W/"), et))
	require.True(t, MatchETag("*", et))
	require.False(t, MatchETag("", et))
	require.False(t, MatchETag(`"other"`, et))
}

func TestAssetsWithCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "app.css"), []byte("body{}"), 0o644))

	h := AssetsWithCache(dir, time.Hour)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/app.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age=3600")
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/css/app.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHTMXFlag(t *testing.T) {
	var seen bool
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IsHTMX(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, seen)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, seen)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in %v", sessionCookieName, rec.Result().Header["Set-Cookie"])
	return nil
}

func TestSessionFlashRoundTrip(t *testing.T) {
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		if r.Method == http.MethodPost {
			s.SetFlash("contact.sent")
			w.WriteHeader(http.StatusSeeOther)
			return
		}
		_, _ = io.WriteString(w, s.TakeFlash())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	c := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(c)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "contact.sent", rec.Body.String())

	// the flash is consumed
	req = httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(sessionCookie(t, rec))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Body.String())
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	var id string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = GetSession(r).ID
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := sessionCookie(t, rec)
	first := id

	c.Value = "x" + c.Value
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotEmpty(t, id)
	require.NotEqual(t, first, id)
}

func TestSessionExpires(t *testing.T) {
	old := SessionData{ID: "old", CSRFToken: "t", CreatedAt: time.Now().UTC().Add(-sessionTTL - time.Hour)}
	b, err := json.Marshal(old)
	require.NoError(t, err)

	var id string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = GetSession(r).ID
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sign(b)})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotEmpty(t, id)
	require.NotEqual(t, "old", id)

	fresh := old
	fresh.CreatedAt = time.Now().UTC()
	b, err = json.Marshal(fresh)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sign(b)})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "old", id)
}

func TestVaryHeaders(t *testing.T) {
	h := HTMX(VaryLocale(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.ElementsMatch(t, []string{"HX-Request", "Accept-Language", "Cookie"}, rec.Header().Values("Vary"))
}

func TestCSRF(t *testing.T) {
	h := Session(CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, CSRFToken(r))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()

	post := func(mutate func(*http.Request)) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		mutate(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusForbidden, post(func(*http.Request) {}))
	require.Equal(t, http.StatusForbidden, post(func(r *http.Request) { r.Header.Set(csrfHeader, "wrong") }))
	require.Equal(t, http.StatusOK, post(func(r *http.Request) { r.Header.Set(csrfHeader, token) }))

	form := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(CSRFFormField+"="+token))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		form.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, form)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFErrorIsJSONForHTMX(t *testing.T) {
	h := HTMX(Session(CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), `"error"`)
	require.Equal(t, "none", rec.Header().Get("HX-Reswap"))
}

func TestRequestLoggerAttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var rid string
	h := chiMid.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid, _ = RequestID(r.Context())
		log.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/helmets", nil))

	require.NotEmpty(t, rid)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"message":"inside"`)
	require.Contains(t, lines[0], rid)
	require.Contains(t, lines[1], `"status":418`)
	require.Contains(t, lines[1], `"level":"warn"`)
	require.Contains(t, lines[1], `"path":"/helmets"`)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	require.Equal(t, "2.2.2.2", clientIP(req))
}
