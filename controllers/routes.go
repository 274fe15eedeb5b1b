// file: controllers/routes.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-refdata/metrics"
	"go-refdata/middleware"
	"go-refdata/services"
)

// Deps are the services the handlers are built from.
type Deps struct {
	Auth    services.AuthServiceInterface
	Records services.RecordServiceInterface
	Metrics metrics.Publisher
}

// RegisterRoutes mounts every route on r. r must already carry the sessions
// middleware and the HTML templates.
func RegisterRoutes(r *gin.Engine, d Deps) {
	authController := NewAuthController(d.Auth)
	recordController := NewRecordController(d.Records)
	adminController := NewAdminController(d.Records)
	csrf := middleware.CSRFProtect(d.Metrics)

	// public
	r.GET("/health", Health)
	r.GET("/", Index)
	r.GET("/register", authController.ShowRegister)
	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)
	r.GET("/logout", authController.Logout)

	// logged in
	protected := r.Group("/")
	protected.Use(middleware.AuthRequired, csrf)
	{
		protected.GET("/welcome", Welcome)

		protected.GET("/abbrevations", recordController.ShowAbbreviations)
		protected.POST("/abbrevations", recordController.LookupAbbreviation)

		protected.GET("/stakeholders", recordController.ShowStakeholders)
		protected.POST("/stakeholders", recordController.AddStakeholder)
		protected.POST("/searchstakeholders", recordController.SearchStakeholders)

		protected.GET("/literature", recordController.ShowLiterature)
		protected.POST("/literature", recordController.AddLiterature)
		protected.POST("/searchbooks", recordController.SearchLiterature)

		protected.GET("/events", recordController.ShowEvents)
		protected.POST("/events", recordController.AddEvent)
		protected.POST("/searchevents", recordController.SearchEvents)
	}

	// admin only; the role check runs before the token check
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired, middleware.AdminRequired(d.Auth, d.Metrics), csrf)
	{
		admin.GET("", adminController.AdminPanel)
		admin.POST("", adminController.DeleteRow)
	}
}
