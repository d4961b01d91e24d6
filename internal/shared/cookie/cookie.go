package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// maxValueLength is the largest encoded value browsers reliably store.
const maxValueLength = 4096

var (
	ErrValueTooLong = errors.New("cookie value too long")
	ErrInvalidValue = errors.New("invalid cookie value")
	ErrInvalidKey   = errors.New("cookie key must be 16, 24 or 32 bytes")
)

// Codec reads and writes one named, AES-GCM encrypted cookie.
type Codec struct {
	name   string
	key    []byte
	secure bool
}

func NewCodec(name string, key []byte, secure bool) (*Codec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKey
	}
	return &Codec{name: name, key: key, secure: secure}, nil
}

// DeriveKey stretches an arbitrary secret into a 32-byte AES-256 key.
func DeriveKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("greenplate session cookie"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (c *Codec) Name() string {
	return c.name
}

// encrypt seals "{cookie name}:{value}" so a value cannot be moved to a cookie with another name.
// The result is base64("{nonce}{ciphertext}").
func (c *Codec) encrypt(value string) (string, error) {
	aesGCM, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	plaintext := fmt.Sprintf("%s:%s", c.name, value)
	sealed := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.URLEncoding.EncodeToString(sealed), nil
}

func (c *Codec) decrypt(encoded string) (string, error) {
	value, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidValue
	}

	aesGCM, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(value) < nonceSize {
		return "", ErrInvalidValue
	}

	nonce, ciphertext := value[:nonceSize], value[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidValue
	}

	// ':' cannot appear in a cookie name, so the first one is the separator.
	actualName, payload, ok := strings.Cut(string(plaintext), ":")
	if !ok || actualName != c.name {
		return "", ErrInvalidValue
	}
	return payload, nil
}

func (c *Codec) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Read returns the decrypted value, http.ErrNoCookie when absent or ErrInvalidValue when tampered.
func (c *Codec) Read(r *http.Request) (string, error) {
	ck, err := r.Cookie(c.name)
	if err != nil {
		return "", err
	}
	return c.decrypt(ck.Value)
}

// Write sets the encrypted cookie. A zero expires makes it a browser-session cookie.
func (c *Codec) Write(w http.ResponseWriter, value string, expires time.Time) error {
	encrypted, err := c.encrypt(value)
	if err != nil {
		return err
	}
	if len(encrypted) > maxValueLength {
		return ErrValueTooLong
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    encrypted,
		Expires:  expires,
		HttpOnly: true,
		// Send cookie to all routes in the app
		Path:     "/",
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear instructs the browser to drop the cookie.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
