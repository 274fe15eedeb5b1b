// file: middleware/testing_test.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-refdata/session"
)

// MockAdminChecker is a testify mock of AdminChecker.
type MockAdminChecker struct {
	mock.Mock
}

func (m *MockAdminChecker) IsAdmin(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

var errLookup = errors.New("db down")

// setupTestRouter returns an engine with sessions, dummy templates and a
// /set-session/:user route that logs in and writes the CSRF token as the body.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(session.CookieName, cookie.NewStore([]byte("test-secret"))))

	dir := t.TempDir()
	for _, name := range []string{"welcome.html", "error.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{{.}}`), 0o600))
	}
	r.LoadHTMLGlob(filepath.Join(dir, "*.html"))

	r.GET("/set-session/:user", func(c *gin.Context) {
		st, err := session.Login(c, c.Param("user"))
		require.NoError(t, err)
		c.String(http.StatusOK, st.CSRFToken)
	})
	return r
}

// login returns the session cookies and CSRF token for user.
func login(t *testing.T, r *gin.Engine, user string) ([]*http.Cookie, string) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set-session/"+user, nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies(), w.Body.String()
}

func request(r *gin.Engine, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
