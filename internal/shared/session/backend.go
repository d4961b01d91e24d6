package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"maps"
	"net/http"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/andrasnagy-data/greenplate/internal/shared/cookie"
	"github.com/rs/zerolog"
)

// Backend opens the Storage of the browser behind a request.
type Backend interface {
	Open(w http.ResponseWriter, r *http.Request) Storage
	Ping(ctx context.Context) error
}

// NewCodec builds the cookie codec for the configured backend.
// Without SESSION_SECRET a random secret is used and sessions do not survive a restart.
func NewCodec(cfg *config.Config, logger zerolog.Logger) (*cookie.Codec, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(buf)
		logger.Warn().Msg("SESSION_SECRET not set, using an auto-generated secret")
	}

	key, err := cookie.DeriveKey(secret)
	if err != nil {
		return nil, err
	}

	name := "session"
	if cfg.SessionBackend != config.SessionBackendCookie {
		name = "sid"
	}
	return cookie.NewCodec(name, key, cfg.SecureCookies)
}

// CookieBackend keeps the whole pair inside the encrypted cookie.
type CookieBackend struct {
	codec *cookie.Codec
	now   func() time.Time
}

func NewCookieBackend(codec *cookie.Codec) *CookieBackend {
	return &CookieBackend{codec: codec, now: time.Now}
}

func (b *CookieBackend) Open(w http.ResponseWriter, r *http.Request) Storage {
	return &cookieStorage{backend: b, w: w, r: r}
}

func (b *CookieBackend) Ping(context.Context) error {
	return nil
}

type cookieStorage struct {
	backend *CookieBackend
	w       http.ResponseWriter
	r       *http.Request
	// pending holds what this request wrote; the request's own cookie is stale after a write.
	pending map[string]string
}

func (s *cookieStorage) load() map[string]string {
	if s.pending != nil {
		return maps.Clone(s.pending)
	}

	values := map[string]string{}
	raw, err := s.backend.codec.Read(s.r)
	if err != nil {
		return values
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return map[string]string{}
	}
	return values
}

func (s *cookieStorage) Get(_ context.Context, key string) (string, error) {
	return s.load()[key], nil
}

func (s *cookieStorage) Set(_ context.Context, values map[string]string) error {
	current := s.load()
	maps.Copy(current, values)
	return s.persist(current)
}

func (s *cookieStorage) Delete(_ context.Context, keys ...string) error {
	current := s.load()
	for _, k := range keys {
		delete(current, k)
	}
	return s.persist(current)
}

func (s *cookieStorage) persist(values map[string]string) error {
	s.pending = values
	if len(values) == 0 {
		s.backend.codec.Clear(s.w)
		return nil
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return s.backend.codec.Write(s.w, string(raw), Expiry(values[KeyToken], s.backend.now()))
}
