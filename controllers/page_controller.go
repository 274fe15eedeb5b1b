// Package controllers holds the gin handlers for every route.
// file: controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-refdata/logger"
	"go-refdata/session"
)

// Health answers load balancer checks.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Index renders the login page.
func Index(c *gin.Context) {
	render(c, http.StatusOK, "index.html", gin.H{})
}

// Welcome renders the landing page after login.
func Welcome(c *gin.Context) {
	render(c, http.StatusOK, "welcome.html", gin.H{})
}

// render adds the session fields every page uses (username, csrf token and
// pending flashes) to data and renders name.
func render(c *gin.Context, status int, name string, data gin.H) {
	st := session.Load(c)
	data["Username"] = st.Username
	data["CSRFToken"] = st.CSRFToken
	if flashes := session.Flashes(c); len(flashes) > 0 {
		data["Flashes"] = flashes
	}
	c.HTML(status, name, data)
}

// renderError logs err and renders the generic error page.
func renderError(c *gin.Context, where string, err error) {
	logger.Errorf("[%s] %v", where, err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Internal server error"})
}
