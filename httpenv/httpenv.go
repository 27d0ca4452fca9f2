// Package httpenv adapts an HTTP request/response pair to the weblocale
// Environment: the language override comes from a query parameter, the stored
// preference from a cookie, and the locale preference list from the
// Accept-Language header.
package httpenv

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultCookieName stores the visitor's language choice.
const DefaultCookieName = "weblocale_lang"

// DefaultCookieMaxAge is one year.
const DefaultCookieMaxAge = 365 * 24 * time.Hour

// Env implements the weblocale Environment for one request.
type Env struct {
	Request *http.Request
	// Writer receives the preference cookie. StorePreference fails when nil.
	Writer http.ResponseWriter

	CookieName   string
	CookieMaxAge time.Duration
}

// New creates an Env with the default cookie settings.
func New(w http.ResponseWriter, r *http.Request) *Env {
	return &Env{
		Request:      r,
		Writer:       w,
		CookieName:   DefaultCookieName,
		CookieMaxAge: DefaultCookieMaxAge,
	}
}

// QueryParam returns the named query parameter of the request URL.
func (e *Env) QueryParam(name string) string {
	if e.Request == nil {
		return ""
	}
	return e.Request.URL.Query().Get(name)
}

// StoredPreference returns the language cookie value, if present.
func (e *Env) StoredPreference() (string, bool) {
	if e.Request == nil {
		return "", false
	}
	cookie, err := e.Request.Cookie(e.cookieName())
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// StorePreference persists the language choice as a cookie on the response.
func (e *Env) StorePreference(code string) error {
	if e.Writer == nil {
		return fmt.Errorf("no response writer to set %q cookie on", e.cookieName())
	}
	maxAge := e.CookieMaxAge
	if maxAge == 0 {
		maxAge = DefaultCookieMaxAge
	}
	http.SetCookie(e.Writer, &http.Cookie{
		Name:     e.cookieName(),
		Value:    code,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// LocalePreferences returns the Accept-Language tags in quality order.
func (e *Env) LocalePreferences() []string {
	if e.Request == nil {
		return nil
	}
	accept := strings.TrimSpace(e.Request.Header.Get("Accept-Language"))
	if accept == "" {
		return nil
	}

	if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
		prefs := make([]string, 0, len(tags))
		for _, tag := range tags {
			prefs = append(prefs, tag.String())
		}
		return prefs
	}

	// Header did not parse as a whole; fall back to a plain split and let the
	// resolver discard whatever remains malformed.
	var prefs []string
	for _, part := range strings.Split(accept, ",") {
		if part = strings.TrimSpace(part); part != "" {
			prefs = append(prefs, part)
		}
	}
	return prefs
}

func (e *Env) cookieName() string {
	if e.CookieName == "" {
		return DefaultCookieName
	}
	return e.CookieName
}
