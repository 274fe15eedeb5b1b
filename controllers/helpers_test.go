// file: controllers/helpers_test.go
package controllers

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-refdata/config"
	"go-refdata/database"
	"go-refdata/models"
	"go-refdata/repository"
	"go-refdata/services"
	"go-refdata/session"
)

// testApp is the full route table over a private in-memory database.
type testApp struct {
	router  *gin.Engine
	db      *database.DB
	auth    *services.AuthService
	records *repository.RecordRepository
	users   *repository.UserRepository
}

// setupTestRouter creates a new Gin engine with session middleware, fake HTML
// templates and every route registered.
func setupTestRouter(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store, err := session.NewStore(&config.Config{SecretKey: "test-secret", SessionMaxAge: 3600})
	require.NoError(t, err)
	router.Use(sessions.Sessions(session.CookieName, store))

	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))

	db := database.OpenTest(t)
	users := repository.NewUserRepository(db.Gorm)
	records := repository.NewRecordRepository(db.SQL)
	auth := services.NewAuthService(users, services.BcryptHasher{Cost: bcrypt.MinCost}, nil)

	RegisterRoutes(router, Deps{
		Auth:    auth,
		Records: services.NewRecordService(records, users, nil),
	})

	// exposes the session so tests can read the issued token
	router.GET("/test/session", func(c *gin.Context) {
		st := session.Load(c)
		c.String(http.StatusOK, st.Username+"|"+st.CSRFToken)
	})

	return &testApp{router: router, db: db, auth: auth, records: records, users: users}
}

// createDummyTemplates writes one minimal template per page. Each starts with
// its own name so tests can tell which page was rendered.
func createDummyTemplates(dir string) error {
	for _, name := range []string{
		"index.html", "register.html", "welcome.html", "error.html", "abbrevations.html",
		"stakeholders.html", "literature.html", "events.html", "admin.html",
	} {
		content := `<html><body>` + name + ` {{.}}</body></html>`
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			return err
		}
	}
	return nil
}

// browser keeps cookies between requests like a real client.
type browser struct {
	t   *testing.T
	app *testApp
	jar *cookiejar.Jar
}

var baseURL, _ = url.Parse("http://example.com/")

func (a *testApp) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, app: a, jar: jar}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body string
	if form != nil {
		body = form.Encode()
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.jar.Cookies(baseURL) {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)
	b.jar.SetCookies(baseURL, w.Result().Cookies())
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

// session returns the username and token currently held by the browser.
func (b *browser) session() (string, string) {
	parts := strings.SplitN(b.get("/test/session").Body.String(), "|", 2)
	return parts[0], parts[1]
}

// login posts credentials and returns the issued CSRF token.
func (b *browser) login(username, password string) string {
	b.t.Helper()
	w := b.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(b.t, http.StatusFound, w.Code, w.Body.String())
	_, token := b.session()
	require.NotEmpty(b.t, token)
	return token
}

// createUser registers an account directly through the service.
func (a *testApp) createUser(t *testing.T, username, password string, role models.Role) {
	t.Helper()
	require.NoError(t, a.auth.Register(context.Background(), services.RegisterInput{
		Username: username, Password1: password, Password2: password, Role: role.String(),
	}))
}

func (a *testApp) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.Gorm.Table(table).Count(&n).Error)
	return n
}
