package cookies_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasamilk/admin-console/internal/cookies"
	"github.com/vasamilk/admin-console/models"
)

func newStore(t *testing.T, secret string) *cookies.Store {
	t.Helper()
	c, err := cookies.NewCipher(secret, "vasamilk-salt")
	require.NoError(t, err)
	return cookies.NewStore(c, true)
}

// write runs SetEncrypted against a recorder and returns the cookie it produced.
func write(t *testing.T, s *cookies.Store, name string, data any, opts cookies.Options) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	s.SetEncrypted(rec, httptest.NewRequest(http.MethodGet, "/", nil), name, data, opts)
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q was not written", name)
	return nil
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func TestRoundTripSession(t *testing.T) {
	s := newStore(t, "secret")
	want := models.Session{
		Token:        "tok-123",
		UserID:       "17",
		UserName:     "ravi",
		UserType:     models.RoleCustomer,
		IsDaily:      true,
		IsOccasional: false,
	}

	res := s.GetDecrypted(requestWith(write(t, s, "user_token", want, cookies.Options{})), "user_token")
	require.Equal(t, cookies.Valid, res.State)
	assert.True(t, res.JSON)

	var got models.Session
	require.NoError(t, res.Decode(&got))
	assert.Equal(t, want, got)
}

func TestStringPassesThroughUnchanged(t *testing.T) {
	s := newStore(t, "secret")

	res := s.GetDecrypted(requestWith(write(t, s, "reset_key", "rk-9f2a", cookies.Options{})), "reset_key")

	require.True(t, res.OK())
	assert.Equal(t, "rk-9f2a", res.Raw)
	assert.False(t, res.JSON)
	assert.Equal(t, "rk-9f2a", res.Value())
}

func TestValueParsesJSON(t *testing.T) {
	s := newStore(t, "secret")

	res := s.GetDecrypted(requestWith(write(t, s, "prefs", map[string]int{"page": 2}, cookies.Options{})), "prefs")

	assert.Equal(t, map[string]any{"page": float64(2)}, res.Value())
}

func TestTamperedCookieIsCorrupt(t *testing.T) {
	s := newStore(t, "secret")
	c := write(t, s, "user_token", models.Session{Token: "t", UserID: "1", UserName: "a", UserType: 1}, cookies.Options{})

	for i := range c.Value {
		mutated := []byte(c.Value)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}

		res := s.GetDecrypted(requestWith(&http.Cookie{Name: "user_token", Value: string(mutated)}), "user_token")

		assert.Equal(t, cookies.Corrupt, res.State, "position %d", i)
		assert.Nil(t, res.Value())
		assert.Error(t, res.Reason)
	}
}

func TestWrongKeyIsCorrupt(t *testing.T) {
	c := write(t, newStore(t, "one"), "user_token", "payload", cookies.Options{})

	res := newStore(t, "two").GetDecrypted(requestWith(c), "user_token")

	assert.Equal(t, cookies.Corrupt, res.State)
	assert.ErrorIs(t, res.Decode(&struct{}{}), cookies.ErrNotValid)
}

func TestMissingCookieIsAbsent(t *testing.T) {
	res := newStore(t, "secret").GetDecrypted(requestWith(nil), "user_token")

	assert.Equal(t, cookies.Absent, res.State)
	assert.Nil(t, res.Value())
}

func TestDefaultsAndOverrides(t *testing.T) {
	s := newStore(t, "secret")

	c := write(t, s, "user_token", "x", cookies.Options{})
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "/", c.Path)

	insecure := false
	expires := time.Now().Add(5 * time.Minute).UTC().Truncate(time.Second)
	c = write(t, s, "reset_key", "x", cookies.Options{Secure: &insecure, Expires: expires, SameSite: http.SameSiteLaxMode})
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, expires.Equal(c.Expires))
}

func TestClearIsIdempotent(t *testing.T) {
	s := newStore(t, "secret")

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		s.Clear(rec, "user_token")

		cs := rec.Result().Cookies()
		require.Len(t, cs, 1)
		assert.Equal(t, "user_token", cs[0].Name)
		assert.Empty(t, cs[0].Value)
		assert.Less(t, cs[0].MaxAge, 0)
		assert.True(t, cs[0].Secure)
		assert.Equal(t, http.SameSiteStrictMode, cs[0].SameSite)
	}

	// A browser honouring the expiry sends nothing back.
	assert.Equal(t, cookies.Absent, s.GetDecrypted(requestWith(nil), "user_token").State)
}

func TestNewCipherRequiresSecret(t *testing.T) {
	_, err := cookies.NewCipher("", "salt")
	assert.ErrorIs(t, err, cookies.ErrEmptySecret)
}
