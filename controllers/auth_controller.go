// file: controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-refdata/logger"
	"go-refdata/repository"
	"go-refdata/services"
	"go-refdata/session"
)

// User-visible account messages.
const (
	MsgUsernameTaken    = "Choose another username."
	MsgPasswordMismatch = "Entered passwords do not match"
	MsgPasswordTooLong  = "Password must be at most 72 bytes."
	MsgInvalidRole      = "Choose a valid role."
	MsgUserCreated      = "User created"
	MsgInvalidUsername  = "Invalid username"
	MsgInvalidPassword  = "Invalid password"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	Auth services.AuthServiceInterface
}

func NewAuthController(auth services.AuthServiceInterface) *AuthController {
	return &AuthController{Auth: auth}
}

// ShowRegister renders the registration form.
func (ac *AuthController) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{})
}

// Register creates an account. Validation failures render the error page with
// a 200; success flashes and redirects back to the form.
func (ac *AuthController) Register(c *gin.Context) {
	in := services.RegisterInput{
		Username:  c.PostForm("username"),
		Password1: c.PostForm("password1"),
		Password2: c.PostForm("password2"),
		Role:      c.PostForm("role"),
	}

	err := ac.Auth.Register(c.Request.Context(), in)
	switch {
	case err == nil:
		session.AddFlash(c, MsgUserCreated)
		c.Redirect(http.StatusFound, "/register")
	case errors.Is(err, repository.ErrUsernameTaken):
		c.HTML(http.StatusOK, "error.html", gin.H{"Message": MsgUsernameTaken})
	case errors.Is(err, services.ErrPasswordMismatch):
		c.HTML(http.StatusOK, "error.html", gin.H{"Message": MsgPasswordMismatch})
	case errors.Is(err, services.ErrPasswordTooLong):
		c.HTML(http.StatusOK, "error.html", gin.H{"Message": MsgPasswordTooLong})
	case errors.Is(err, services.ErrInvalidRole):
		c.HTML(http.StatusOK, "error.html", gin.H{"Message": MsgInvalidRole})
	default:
		renderError(c, "Register", err)
	}
}

// Login checks credentials. Both failure kinds answer 200 with a plain message
// and leave the session untouched.
func (ac *AuthController) Login(c *gin.Context) {
	username := c.PostForm("username")

	_, err := ac.Auth.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	switch {
	case errors.Is(err, services.ErrUnknownUser):
		c.String(http.StatusOK, MsgInvalidUsername)
		return
	case errors.Is(err, services.ErrWrongPassword):
		c.String(http.StatusOK, MsgInvalidPassword)
		return
	case err != nil:
		renderError(c, "Login", err)
		return
	}

	if _, err := session.Login(c, username); err != nil {
		renderError(c, "Login", err)
		return
	}
	logger.Infof("[Login] '%s' logged in", username)
	c.Redirect(http.StatusFound, "/welcome")
}

// Logout clears the username and returns to the login page.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := session.Logout(c); err != nil {
		logger.Errorf("[Logout] failed to save session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}
