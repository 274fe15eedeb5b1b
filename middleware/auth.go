// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-refdata/logger"
	"go-refdata/session"
)

// ContextUsername is the gin context key AuthRequired stores the username under.
const ContextUsername = "username"

// -------------- authentication middleware --------------

// AuthRequired is a middleware that ensures the user is logged in.
// How it works:
// - Loads the session state.
// - If no username is stored, redirects to "/" and aborts.
// - Otherwise stores the username in the context and continues.
// Usage:
//
//	router.Use(AuthRequired)
func AuthRequired(c *gin.Context) {
	st := session.Load(c)

	if !st.Authenticated() {
		logger.Warningf("[AuthRequired] no user in session for %s %s", c.Request.Method, c.Request.URL.Path)
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}

	c.Set(ContextUsername, st.Username)
	c.Next()
}
