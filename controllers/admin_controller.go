// Package controllers provides HTTP handlers for various admin operations.
// File: controllers/admin_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-refdata/models"
	"go-refdata/services"
)

// ---------------- Admin Controller ----------------

// AdminController serves the row-management panel. Routes using it must sit
// behind middleware.AdminRequired.
type AdminController struct {
	Records services.RecordServiceInterface
}

// NewAdminController initializes a new instance of AdminController
func NewAdminController(records services.RecordServiceInterface) *AdminController {
	return &AdminController{Records: records}
}

// ---------------- admin panel management ----------------

// AdminPanel renders every table.
func (ac *AdminController) AdminPanel(c *gin.Context) {
	ac.renderPanel(c, gin.H{})
}

// DeleteRow removes one row from an allow-listed table, then renders the panel
// with the outcome. Unknown tables and non-integer ids are reported on the
// panel and nothing is deleted.
func (ac *AdminController) DeleteRow(c *gin.Context) {
	res, err := ac.Records.DeleteRow(c.Request.Context(), c.PostForm("table"), c.PostForm("id"))

	var unknown *models.ErrUnknownTable
	switch {
	case errors.As(err, &unknown), errors.Is(err, services.ErrInvalidRowID):
		ac.renderPanel(c, gin.H{"Error": err.Error()})
	case err != nil:
		renderError(c, "DeleteRow", err)
	default:
		ac.renderPanel(c, gin.H{"Message": res.Message()})
	}
}

func (ac *AdminController) renderPanel(c *gin.Context, data gin.H) {
	o, err := ac.Records.Overview(c.Request.Context())
	if err != nil {
		renderError(c, "AdminPanel", err)
		return
	}
	data["Abbreviations"] = o.Abbreviations
	data["Literature"] = o.Literature
	data["Stakeholders"] = o.Stakeholders
	data["Users"] = o.Users
	data["Events"] = o.Events
	data["Tables"] = models.ManagedTables()
	render(c, http.StatusOK, "admin.html", data)
}
