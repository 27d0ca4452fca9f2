package httpenv

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestQueryParam(t *testing.T) {
	env := New(nil, newRequest(t, "/?lang=fr&x=1"))

	assert.Equal(t, "fr", env.QueryParam("lang"))
	assert.Equal(t, "", env.QueryParam("missing"))
}

func TestStoredPreference(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		r := newRequest(t, "/")
		r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "ar"})
		env := New(nil, r)

		code, ok := env.StoredPreference()
		assert.True(t, ok)
		assert.Equal(t, "ar", code)
	})

	t.Run("absent", func(t *testing.T) {
		env := New(nil, newRequest(t, "/"))
		_, ok := env.StoredPreference()
		assert.False(t, ok)
	})

	t.Run("custom cookie name", func(t *testing.T) {
		r := newRequest(t, "/")
		r.AddCookie(&http.Cookie{Name: "site_lang", Value: "fr"})
		env := New(nil, r)
		env.CookieName = "site_lang"

		code, ok := env.StoredPreference()
		assert.True(t, ok)
		assert.Equal(t, "fr", code)
	})
}

func TestStorePreference(t *testing.T) {
	t.Run("sets cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		env := New(w, newRequest(t, "/"))

		require.NoError(t, env.StorePreference("fr"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, DefaultCookieName, cookies[0].Name)
		assert.Equal(t, "fr", cookies[0].Value)
		assert.Equal(t, "/", cookies[0].Path)
		assert.Positive(t, cookies[0].MaxAge)
	})

	t.Run("fails without a writer", func(t *testing.T) {
		env := New(nil, newRequest(t, "/"))
		assert.Error(t, env.StorePreference("fr"))
	})
}

func TestLocalePreferences(t *testing.T) {
	t.Run("quality order", func(t *testing.T) {
		r := newRequest(t, "/")
		r.Header.Set("Accept-Language", "fr;q=0.8, ar;q=0.9, en;q=0.2")
		env := New(nil, r)

		assert.Equal(t, []string{"ar", "fr", "en"}, env.LocalePreferences())
	})

	t.Run("region tags preserved", func(t *testing.T) {
		r := newRequest(t, "/")
		r.Header.Set("Accept-Language", "pt-BR, en-US;q=0.7")
		env := New(nil, r)

		prefs := env.LocalePreferences()
		require.Len(t, prefs, 2)
		assert.Equal(t, "pt-BR", prefs[0])
	})

	t.Run("empty header", func(t *testing.T) {
		env := New(nil, newRequest(t, "/"))
		assert.Empty(t, env.LocalePreferences())
	})

	t.Run("malformed header falls back to plain split", func(t *testing.T) {
		r := newRequest(t, "/")
		r.Header.Set("Accept-Language", "fr, not a tag !!,")
		env := New(nil, r)

		prefs := env.LocalePreferences()
		assert.Contains(t, prefs, "fr")
	})
}

func TestNilRequest(t *testing.T) {
	env := &Env{}

	assert.Equal(t, "", env.QueryParam("lang"))
	_, ok := env.StoredPreference()
	assert.False(t, ok)
	assert.Empty(t, env.LocalePreferences())
	assert.Error(t, env.StorePreference("en"))
}
