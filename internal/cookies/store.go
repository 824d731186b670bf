package cookies

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Options are per-write cookie attributes. Zero values fall back to the store
// defaults: Secure=true (unless the store was built insecure), SameSite=Strict,
// Path=/.
type Options struct {
	Expires  time.Time
	MaxAge   int
	Secure   *bool
	SameSite http.SameSite
	Path     string
}

// State tags the outcome of reading an encrypted cookie.
type State int

const (
	Absent State = iota
	Corrupt
	Valid
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Corrupt:
		return "corrupt"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is what GetDecrypted read. Raw holds the decrypted text of a Valid
// cookie and JSON reports whether that text parsed as JSON.
type Result struct {
	State  State
	Raw    string
	JSON   bool
	Reason error
}

func (r Result) OK() bool { return r.State == Valid }

// Value returns the parsed JSON value, or the raw string when the payload was not
// JSON. Absent and corrupt cookies give nil.
func (r Result) Value() any {
	if r.State != Valid {
		return nil
	}
	if !r.JSON {
		return r.Raw
	}
	var v any
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return r.Raw
	}
	return v
}

var ErrNotValid = errors.New("cookie is not valid")

// Decode unmarshals a valid JSON payload into v.
func (r Result) Decode(v any) error {
	if r.State != Valid {
		return ErrNotValid
	}
	return json.Unmarshal([]byte(r.Raw), v)
}

// Store reads and writes encrypted cookies.
type Store struct {
	cipher *Cipher
	secure bool
}

// NewStore returns a store whose cookies default to the given Secure flag.
func NewStore(c *Cipher, secure bool) *Store {
	return &Store{cipher: c, secure: secure}
}

// SetEncrypted serializes data (strings pass through unchanged), encrypts it and
// writes it under name. Failures are logged; the caller sees no error.
func (s *Store) SetEncrypted(w http.ResponseWriter, r *http.Request, name string, data any, opts Options) {
	logger := zerolog.Ctx(r.Context())

	var plain string
	switch v := data.(type) {
	case string:
		plain = v
	case []byte:
		plain = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			logger.Error().Err(err).Str("cookie", name).Msg("failed to encode cookie payload")
			return
		}
		plain = string(b)
	}

	value, err := s.cipher.Encrypt(plain)
	if err != nil {
		logger.Error().Err(err).Str("cookie", name).Msg("failed to encrypt cookie")
		return
	}

	c := s.cookie(name, opts)
	c.Value = value
	http.SetCookie(w, c)
}

// GetDecrypted reads name. Decrypt failures are logged and reported as Corrupt,
// never returned as errors.
func (s *Store) GetDecrypted(r *http.Request, name string) Result {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return Result{State: Absent}
	}

	plain, err := s.cipher.Decrypt(c.Value)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("cookie", name).Msg("failed to decrypt cookie")
		return Result{State: Corrupt, Reason: err}
	}

	return Result{State: Valid, Raw: plain, JSON: json.Valid([]byte(plain))}
}

// Clear expires name with the same attributes it was written with, so browsers
// that match on attributes still drop it.
func (s *Store) Clear(w http.ResponseWriter, name string) {
	c := s.cookie(name, Options{})
	c.Value = ""
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (s *Store) cookie(name string, opts Options) *http.Cookie {
	secure := s.secure
	if opts.Secure != nil {
		secure = *opts.Secure
	}
	sameSite := opts.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteStrictMode
	}
	path := opts.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     name,
		Path:     path,
		Expires:  opts.Expires,
		MaxAge:   opts.MaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: sameSite,
	}
}
