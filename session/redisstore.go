// file: session/redisstore.go
package session

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gorillasessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refdata:session:"

var errSessionNotFound = errors.New("session not found")

// RedisStore keeps session values in Redis. The browser only holds the
// signed session id.
type RedisStore struct {
	client  *redis.Client
	Codecs  []securecookie.Codec
	options *sessions.Options
}

var _ sessions.Store = (*RedisStore)(nil)

// NewRedisStore signs session ids with keyPairs.
func NewRedisStore(client *redis.Client, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		client:  client,
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		options: &sessions.Options{Path: "/", MaxAge: 86400 * 7},
	}
}

func (s *RedisStore) Options(opts sessions.Options) {
	s.options = &opts
}

func (s *RedisStore) Get(r *http.Request, name string) (*gorillasessions.Session, error) {
	return gorillasessions.GetRegistry(r).Get(s, name)
}

// New returns the stored session for the request cookie, or a fresh one when
// the cookie is missing, forged or expired in Redis.
func (s *RedisStore) New(r *http.Request, name string) (*gorillasessions.Session, error) {
	sess := gorillasessions.NewSession(s, name)
	sess.Options = &gorillasessions.Options{
		Path:     s.options.Path,
		Domain:   s.options.Domain,
		MaxAge:   s.options.MaxAge,
		Secure:   s.options.Secure,
		HttpOnly: s.options.HttpOnly,
		SameSite: s.options.SameSite,
	}
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &sess.ID, s.Codecs...); err != nil {
		sess.ID = ""
		return sess, nil
	}
	if err := s.load(r.Context(), sess); err != nil {
		if !errors.Is(err, errSessionNotFound) {
			return sess, err
		}
		return sess, nil
	}
	sess.IsNew = false
	return sess, nil
}

// Save writes the values to Redis and the signed id to the cookie. A negative
// MaxAge deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, sess *gorillasessions.Session) error {
	ctx := r.Context()
	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.client.Del(ctx, keyPrefix+sess.ID).Err(); err != nil {
				return err
			}
		}
		http.SetCookie(w, s.newCookie(sess, ""))
		return nil
	}

	if sess.ID == "" {
		sess.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(ctx, sess); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.newCookie(sess, encoded))
	return nil
}

func (s *RedisStore) newCookie(sess *gorillasessions.Session, value string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     sess.Name(),
		Value:    value,
		Path:     sess.Options.Path,
		Domain:   sess.Options.Domain,
		MaxAge:   sess.Options.MaxAge,
		Secure:   sess.Options.Secure,
		HttpOnly: sess.Options.HttpOnly,
		SameSite: sess.Options.SameSite,
	}
	if sess.Options.MaxAge > 0 {
		cookie.Expires = time.Now().Add(time.Duration(sess.Options.MaxAge) * time.Second)
	}
	return cookie
}

func (s *RedisStore) save(ctx context.Context, sess *gorillasessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(sess.Values); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	maxAge := sess.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.options.MaxAge
	}
	return s.client.Set(ctx, keyPrefix+sess.ID, buf.Bytes(), time.Duration(maxAge)*time.Second).Err()
}

func (s *RedisStore) load(ctx context.Context, sess *gorillasessions.Session) error {
	data, err := s.client.Get(ctx, keyPrefix+sess.ID).Bytes()
	if errors.Is(err, redis.Nil) {
		return errSessionNotFound
	}
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sess.Values); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	return nil
}
