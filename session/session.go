// Package session holds the per-browser state: the logged-in username, the
// anti-forgery token and flash messages.
// file: session/session.go
package session

import (
	"context"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"

	"go-refdata/config"
	"go-refdata/logger"
)

// CookieName is the session cookie.
const CookieName = "refdata_session"

const (
	keyUsername = "username"
	keyCSRF     = "csrf_token"
)

// CSRFField is the form field carrying the anti-forgery token.
const CSRFField = "csrf_token"

func init() {
	// flash messages are stored as []interface{}
	gob.Register([]interface{}{})
}

// State is the typed view of one session.
type State struct {
	Username  string
	CSRFToken string
}

// Authenticated reports whether a user is logged in.
func (s State) Authenticated() bool {
	return s.Username != ""
}

// Load reads the session. Absent keys come back empty.
func Load(c *gin.Context) State {
	s := sessions.Default(c)
	username, _ := s.Get(keyUsername).(string)
	token, _ := s.Get(keyCSRF).(string)
	return State{Username: username, CSRFToken: token}
}

// NewCSRFToken returns 16 random bytes, hex encoded.
func NewCSRFToken() (string, error) {
	b := securecookie.GenerateRandomKey(16)
	if b == nil {
		return "", errors.New("failed to generate csrf token")
	}
	return hex.EncodeToString(b), nil
}

// Login stores username and a fresh anti-forgery token.
func Login(c *gin.Context, username string) (State, error) {
	token, err := NewCSRFToken()
	if err != nil {
		return State{}, err
	}
	s := sessions.Default(c)
	s.Set(keyUsername, username)
	s.Set(keyCSRF, token)
	if err := s.Save(); err != nil {
		return State{}, fmt.Errorf("save session: %w", err)
	}
	logger.Debugf("[session] '%s' logged in", username)
	return State{Username: username, CSRFToken: token}, nil
}

// Logout drops the username. It is a no-op when nobody is logged in.
func Logout(c *gin.Context) error {
	s := sessions.Default(c)
	if s.Get(keyUsername) == nil {
		return nil
	}
	s.Delete(keyUsername)
	return s.Save()
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, msg string) {
	s := sessions.Default(c)
	s.AddFlash(msg)
	if err := s.Save(); err != nil {
		logger.Errorf("[session] failed to save flash: %v", err)
	}
}

// Flashes pops the queued messages.
func Flashes(c *gin.Context) []string {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(); err != nil {
		logger.Errorf("[session] failed to clear flashes: %v", err)
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// ------------------- stores -------------------

// NewStore builds the configured session store.
func NewStore(cfg *config.Config) (sessions.Store, error) {
	opts := sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	var store sessions.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Infof("[session] using redis store at %s", cfg.RedisAddr)
		store = NewRedisStore(client, []byte(cfg.SecretKey))
	default:
		logger.Info("[session] using cookie store")
		store = cookie.NewStore([]byte(cfg.SecretKey))
	}
	store.Options(opts)
	return store, nil
}
