package session

import (
	"context"
	"crypto/hmac"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
)

type contextKey struct{}

// Options configures the session cookie.
type Options struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
}

// Manager issues signed session cookies and loads session values from a Store.
type Manager struct {
	store  Store
	opts   Options
	logger *zap.Logger
}

// NewManager creates a new Manager
func NewManager(store Store, opts Options, logger *zap.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "sessionid"
	}
	if opts.TTL <= 0 {
		opts.TTL = 14 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, opts: opts, logger: logger}
}

// Middleware attaches the visitor's session to the request context. A missing
// or tampered cookie starts a new, empty session. The cookie and the stored
// session both expire one TTL after the visitor's last request.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.load(r)
		if !sess.IsNew() {
			if err := m.store.Touch(r.Context(), sess.ID, m.opts.TTL); err != nil {
				m.logger.Warn("session touch failed", zap.String("session", sess.ID), zap.Error(err))
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.opts.CookieName,
			Value:    m.sign(sess.ID),
			Path:     "/",
			MaxAge:   int(m.opts.TTL / time.Second),
			HttpOnly: true,
			Secure:   m.opts.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, sess)))
	})
}

func (m *Manager) load(r *http.Request) *Session {
	if cookie, err := r.Cookie(m.opts.CookieName); err == nil {
		if id, ok := m.verify(cookie.Value); ok {
			values, err := m.store.Load(r.Context(), id)
			if err == nil {
				return &Session{ID: id, values: values, manager: m}
			}
			m.logger.Warn("session load failed", zap.String("session", id), zap.Error(err))
		}
	}
	return &Session{ID: uuid.NewString(), values: Values{}, manager: m, isNew: true}
}

func (m *Manager) mac(id string) string {
	h := hmac.New(sha3.New256, []byte(m.opts.Secret))
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}

func (m *Manager) sign(id string) string {
	return id + "." + m.mac(id)
}

func (m *Manager) verify(value string) (string, bool) {
	id, mac, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	if !hmac.Equal([]byte(mac), []byte(m.mac(id))) {
		return "", false
	}
	return id, true
}

// FromContext returns the session attached by Middleware, or nil.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}

// Session is one visitor's named values. Changes are kept in memory until Save.
type Session struct {
	ID      string
	values  Values
	manager *Manager
	isNew   bool
	dirty   bool
}

// IsNew reports whether the session was started by this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

// Get decodes the named value into dst and reports whether it was present.
func (s *Session) Get(name string, dst interface{}) (bool, error) {
	raw, ok := s.values[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, errors.Wrapf(err, "decode session value %q", name)
	}
	return true, nil
}

// Set stores v under name
func (s *Session) Set(name string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode session value %q", name)
	}
	s.values[name] = raw
	s.dirty = true
	return nil
}

// Delete removes the named value
func (s *Session) Delete(name string) {
	if _, ok := s.values[name]; ok {
		delete(s.values, name)
		s.dirty = true
	}
}

// Save writes the session to its store when it has changed.
func (s *Session) Save(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	if err := s.manager.store.Save(ctx, s.ID, s.values, s.manager.opts.TTL); err != nil {
		return err
	}
	s.dirty = false
	s.isNew = false
	return nil
}
