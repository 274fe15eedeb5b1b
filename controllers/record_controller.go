// file: controllers/record_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-refdata/repository"
	"go-refdata/services"
	"go-refdata/session"
)

// MsgAbbreviationNotFound is shown when a lookup misses.
const MsgAbbreviationNotFound = "Abbreviation not found"

// RecordController serves the four reference-data pages.
type RecordController struct {
	Records services.RecordServiceInterface
}

func NewRecordController(records services.RecordServiceInterface) *RecordController {
	return &RecordController{Records: records}
}

// ---------------- abbreviations ----------------

func (rc *RecordController) ShowAbbreviations(c *gin.Context) {
	render(c, http.StatusOK, "abbrevations.html", gin.H{})
}

// LookupAbbreviation renders the explanation for the submitted abbreviation.
func (rc *RecordController) LookupAbbreviation(c *gin.Context) {
	abbreviation := c.PostForm("abbreviation")
	data := gin.H{"Abbreviation": abbreviation}

	a, err := rc.Records.LookupAbbreviation(c.Request.Context(), abbreviation)
	switch {
	case errors.Is(err, repository.ErrAbbreviationNotFound):
		data["Error"] = MsgAbbreviationNotFound
	case err != nil:
		renderError(c, "LookupAbbreviation", err)
		return
	default:
		data["Explanation"] = a.Explanation
	}
	render(c, http.StatusOK, "abbrevations.html", data)
}

// ---------------- record pages ----------------

func (rc *RecordController) ShowStakeholders(c *gin.Context) {
	render(c, http.StatusOK, "stakeholders.html", gin.H{"Filters": map[string]string{}})
}

func (rc *RecordController) ShowLiterature(c *gin.Context) {
	render(c, http.StatusOK, "literature.html", gin.H{"Filters": map[string]string{}})
}

func (rc *RecordController) ShowEvents(c *gin.Context) {
	render(c, http.StatusOK, "events.html", gin.H{"Filters": map[string]string{}})
}

func (rc *RecordController) AddStakeholder(c *gin.Context) {
	rc.insert(c, "stakeholders.html", "/stakeholders", "Stakeholder", rc.Records.AddStakeholder)
}

func (rc *RecordController) AddLiterature(c *gin.Context) {
	rc.insert(c, "literature.html", "/literature", "Literature", rc.Records.AddLiterature)
}

func (rc *RecordController) AddEvent(c *gin.Context) {
	rc.insert(c, "events.html", "/events", "Event", rc.Records.AddEvent)
}

// insert validates and stores one record. Validation failures re-render the
// form with a 200 and the message; nothing is written.
func (rc *RecordController) insert(c *gin.Context, page, redirect, kind string, add func(context.Context, services.FieldLookup) error) {
	err := add(c.Request.Context(), c.GetPostForm)

	var missing *services.MissingFieldsError
	switch {
	case err == nil:
		session.AddFlash(c, kind+" item added successfully")
		c.Redirect(http.StatusFound, redirect)
	case errors.As(err, &missing), errors.Is(err, services.ErrInvalidEventDate):
		render(c, http.StatusOK, page, gin.H{"Filters": map[string]string{}, "Error": err.Error()})
	default:
		renderError(c, "Add"+kind, err)
	}
}

// ---------------- searches ----------------

func (rc *RecordController) SearchStakeholders(c *gin.Context) {
	rows, filters, err := rc.Records.SearchStakeholders(c.Request.Context(), c.GetPostForm)
	rc.results(c, "stakeholders.html", rows, filters, err)
}

func (rc *RecordController) SearchLiterature(c *gin.Context) {
	rows, filters, err := rc.Records.SearchLiterature(c.Request.Context(), c.GetPostForm)
	rc.results(c, "literature.html", rows, filters, err)
}

func (rc *RecordController) SearchEvents(c *gin.Context) {
	rows, filters, err := rc.Records.SearchEvents(c.Request.Context(), c.GetPostForm)
	rc.results(c, "events.html", rows, filters, err)
}

// results renders a search outcome. An invalid date filter shows the message
// and no rows.
func (rc *RecordController) results(c *gin.Context, page string, rows interface{}, filters map[string]string, err error) {
	data := gin.H{"Filters": filters}
	switch {
	case errors.Is(err, repository.ErrInvalidDateFilter):
		data["Error"] = err.Error()
	case err != nil:
		renderError(c, "Search", err)
		return
	default:
		data["Results"] = rows
	}
	render(c, http.StatusOK, page, data)
}
