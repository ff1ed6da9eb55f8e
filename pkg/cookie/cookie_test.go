package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/accountd/pkg/cookie"
)

func TestManagerSet(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		rec := httptest.NewRecorder()
		m.Set(rec, "session", "value")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "session", c.Name)
		assert.Equal(t, "value", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.False(t, c.Secure)
	})

	t.Run("per-call options override defaults", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecure(true))
		rec := httptest.NewRecorder()
		m.Set(rec, "session", "value", cookie.WithMaxAge(3600))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, 3600, cookies[0].MaxAge)
	})
}

func TestManagerGet(t *testing.T) {
	t.Parallel()

	m := cookie.New()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "abc"})

	val, err := m.Get(r, "session")
	require.NoError(t, err)
	assert.Equal(t, "abc", val)

	_, err = m.Get(r, "missing")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManagerDelete(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	rec := httptest.NewRecorder()
	m.Delete(rec, "session")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
