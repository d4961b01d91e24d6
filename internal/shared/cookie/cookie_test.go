package cookie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, name string) *Codec {
	t.Helper()
	key, err := DeriveKey("correct horse battery staple")
	require.NoError(t, err)
	c, err := NewCodec(name, key, true)
	require.NoError(t, err)
	return c
}

// replay copies the Set-Cookie headers of rec onto a fresh request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	return req
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a, err := DeriveKey("secret")
	require.NoError(t, err)
	b, err := DeriveKey("secret")
	require.NoError(t, err)
	c, err := DeriveKey("other")
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNewCodec_RejectsBadKey(t *testing.T) {
	_, err := NewCodec("session", []byte("short"), true)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	c := newCodec(t, "session")
	rec := httptest.NewRecorder()
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	require.NoError(t, c.Write(rec, `{"token":"abc","username":"alice"}`, expires))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "/", cookies[0].Path)
	assert.NotContains(t, cookies[0].Value, "alice")

	got, err := c.Read(replay(rec))
	require.NoError(t, err)
	assert.Equal(t, `{"token":"abc","username":"alice"}`, got)
}

func TestRead_Missing(t *testing.T) {
	c := newCodec(t, "session")
	_, err := c.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, http.ErrNoCookie)
}

func TestRead_Tampered(t *testing.T) {
	c := newCodec(t, "session")
	rec := httptest.NewRecorder()
	require.NoError(t, c.Write(rec, "value", time.Time{}))

	ck := rec.Result().Cookies()[0]
	raw := []byte(ck.Value)
	raw[len(raw)/2] ^= 0x01
	ck.Value = string(raw)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)

	_, err := c.Read(req)
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func TestRead_RejectsCookieMovedBetweenNames(t *testing.T) {
	session := newCodec(t, "session")
	sid := newCodec(t, "sid")

	rec := httptest.NewRecorder()
	require.NoError(t, session.Write(rec, "value", time.Time{}))

	moved := rec.Result().Cookies()[0]
	moved.Name = "sid"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(moved)

	_, err := sid.Read(req)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestWrite_TooLong(t *testing.T) {
	c := newCodec(t, "session")
	err := c.Write(httptest.NewRecorder(), strings.Repeat("x", maxValueLength), time.Time{})
	assert.ErrorIs(t, err, ErrValueTooLong)
}

func TestClear(t *testing.T) {
	c := newCodec(t, "session")
	rec := httptest.NewRecorder()
	c.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
