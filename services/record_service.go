// file: services/record_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"go-refdata/logger"
	"go-refdata/metrics"
	"go-refdata/models"
	"go-refdata/repository"
)

// ErrInvalidEventDate is returned when an event's time is not YYYY-MM-DD.
var ErrInvalidEventDate = errors.New("event time must be YYYY-MM-DD")

// ErrInvalidRowID is returned when the admin form's id is not an integer.
var ErrInvalidRowID = errors.New("row id must be an integer")

// MissingFieldsError lists required keys absent from a submission.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing fields: " + strings.Join(e.Fields, ", ")
}

// FieldLookup reads one submitted form key; ok is false when the key is absent.
// gin's Context.GetPostForm has this shape.
type FieldLookup func(key string) (value string, ok bool)

// RecordStore is the reference-record persistence the service needs.
type RecordStore interface {
	InsertStakeholder(ctx context.Context, s *models.Stakeholder) error
	InsertLiterature(ctx context.Context, l *models.LiteratureItem) error
	InsertEvent(ctx context.Context, e *models.Event) error
	SearchStakeholders(ctx context.Context, q repository.SearchQuery) ([]models.Stakeholder, error)
	SearchLiterature(ctx context.Context, q repository.SearchQuery) ([]models.LiteratureItem, error)
	SearchEvents(ctx context.Context, q repository.SearchQuery) ([]models.Event, error)
	LookupAbbreviation(ctx context.Context, abbreviation string) (*models.Abbreviation, error)
	ListAbbreviations(ctx context.Context) ([]models.Abbreviation, error)
	Delete(ctx context.Context, table models.Table, id int64) (int64, error)
}

// RecordServiceInterface is what the record and admin handlers depend on.
type RecordServiceInterface interface {
	AddStakeholder(ctx context.Context, form FieldLookup) error
	AddLiterature(ctx context.Context, form FieldLookup) error
	AddEvent(ctx context.Context, form FieldLookup) error
	SearchStakeholders(ctx context.Context, form FieldLookup) ([]models.Stakeholder, map[string]string, error)
	SearchLiterature(ctx context.Context, form FieldLookup) ([]models.LiteratureItem, map[string]string, error)
	SearchEvents(ctx context.Context, form FieldLookup) ([]models.Event, map[string]string, error)
	LookupAbbreviation(ctx context.Context, abbreviation string) (*models.Abbreviation, error)
	DeleteRow(ctx context.Context, tableName, rawID string) (DeleteResult, error)
	Overview(ctx context.Context) (*AdminOverview, error)
}

var _ RecordServiceInterface = (*RecordService)(nil)

// RecordService implements insert, search and delete for the record kinds.
type RecordService struct {
	records RecordStore
	users   UserStore
	metrics metrics.Publisher
}

// NewRecordService builds a RecordService. A nil publisher disables metrics.
func NewRecordService(records RecordStore, users UserStore, pub metrics.Publisher) *RecordService {
	if pub == nil {
		pub = metrics.Noop{}
	}
	return &RecordService{records: records, users: users, metrics: pub}
}

// collect reads every name from form. Presence is required, emptiness is not.
func collect(form FieldLookup, names []string) (map[string]string, error) {
	values := make(map[string]string, len(names))
	var missing []string
	for _, n := range names {
		v, ok := form(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		values[n] = v
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	return values, nil
}

// ---------------- inserts ----------------

func (s *RecordService) AddStakeholder(ctx context.Context, form FieldLookup) error {
	v, err := collect(form, repository.StakeholderSearch.FieldNames())
	if err != nil {
		logger.Warningf("[AddStakeholder] rejected: %v", err)
		return err
	}
	rec := &models.Stakeholder{Name: v["name"], Type: v["type"], Description: v["description"], Contact: v["contact"]}
	if err := s.records.InsertStakeholder(ctx, rec); err != nil {
		return err
	}
	s.metrics.Count(ctx, metrics.RecordInserted, models.TableStakeholders.Name())
	return nil
}

func (s *RecordService) AddLiterature(ctx context.Context, form FieldLookup) error {
	v, err := collect(form, repository.LiteratureSearch.FieldNames())
	if err != nil {
		logger.Warningf("[AddLiterature] rejected: %v", err)
		return err
	}
	rec := &models.LiteratureItem{
		Title:        v["title"],
		Author:       v["author"],
		Keywords:     v["keywords"],
		Rating:       v["rating"],
		Availability: v["availability"],
	}
	if err := s.records.InsertLiterature(ctx, rec); err != nil {
		return err
	}
	s.metrics.Count(ctx, metrics.RecordInserted, models.TableLiterature.Name())
	return nil
}

func (s *RecordService) AddEvent(ctx context.Context, form FieldLookup) error {
	v, err := collect(form, repository.EventSearch.FieldNames())
	if err != nil {
		logger.Warningf("[AddEvent] rejected: %v", err)
		return err
	}
	day, err := time.Parse(models.DateLayout, strings.TrimSpace(v["time"]))
	if err != nil {
		logger.Warningf("[AddEvent] rejected time %q", v["time"])
		return fmt.Errorf("%w: got %q", ErrInvalidEventDate, v["time"])
	}
	rec := &models.Event{
		Name:        v["name"],
		Description: v["description"],
		Country:     v["country"],
		Time:        datatypes.Date(day),
		Info:        v["info"],
	}
	if err := s.records.InsertEvent(ctx, rec); err != nil {
		return err
	}
	s.metrics.Count(ctx, metrics.RecordInserted, models.TableEvents.Name())
	return nil
}

// ---------------- searches ----------------

// filters reads the optional search fields; absent keys become "".
func filters(form FieldLookup, spec repository.SearchSpec) map[string]string {
	values := make(map[string]string, len(spec.Fields))
	for _, n := range spec.FieldNames() {
		v, _ := form(n)
		values[n] = v
	}
	return values
}

// SearchStakeholders returns matching rows and the filters it applied, so the
// page can echo them back.
func (s *RecordService) SearchStakeholders(ctx context.Context, form FieldLookup) ([]models.Stakeholder, map[string]string, error) {
	values := filters(form, repository.StakeholderSearch)
	q, err := repository.BuildSearch(repository.StakeholderSearch, values)
	if err != nil {
		return nil, values, err
	}
	rows, err := s.records.SearchStakeholders(ctx, q)
	s.metrics.Count(ctx, metrics.RecordsSearched, models.TableStakeholders.Name())
	return rows, values, err
}

func (s *RecordService) SearchLiterature(ctx context.Context, form FieldLookup) ([]models.LiteratureItem, map[string]string, error) {
	values := filters(form, repository.LiteratureSearch)
	q, err := repository.BuildSearch(repository.LiteratureSearch, values)
	if err != nil {
		return nil, values, err
	}
	rows, err := s.records.SearchLiterature(ctx, q)
	s.metrics.Count(ctx, metrics.RecordsSearched, models.TableLiterature.Name())
	return rows, values, err
}

// SearchEvents fails with repository.ErrInvalidDateFilter, without querying,
// when time is not a year, a month or a day.
func (s *RecordService) SearchEvents(ctx context.Context, form FieldLookup) ([]models.Event, map[string]string, error) {
	values := filters(form, repository.EventSearch)
	q, err := repository.BuildSearch(repository.EventSearch, values)
	if err != nil {
		logger.Warningf("[SearchEvents] %v", err)
		return nil, values, err
	}
	rows, err := s.records.SearchEvents(ctx, q)
	s.metrics.Count(ctx, metrics.RecordsSearched, models.TableEvents.Name())
	return rows, values, err
}

// LookupAbbreviation trims the input and looks it up exactly.
func (s *RecordService) LookupAbbreviation(ctx context.Context, abbreviation string) (*models.Abbreviation, error) {
	return s.records.LookupAbbreviation(ctx, strings.TrimSpace(abbreviation))
}

// ---------------- admin ----------------

// DeleteResult reports the outcome of an admin delete.
type DeleteResult struct {
	Table   models.Table
	ID      int64
	Removed bool
}

// Message is the flash shown on the admin panel.
func (r DeleteResult) Message() string {
	if r.Removed {
		return fmt.Sprintf("Row with id = %d removed successfully from table %s", r.ID, r.Table)
	}
	return fmt.Sprintf("No row with id = %d in table %s", r.ID, r.Table)
}

// DeleteRow checks tableName against the allow-list and rawID for an integer
// before anything reaches the store.
func (s *RecordService) DeleteRow(ctx context.Context, tableName, rawID string) (DeleteResult, error) {
	table, err := models.ParseTable(strings.TrimSpace(tableName))
	if err != nil {
		logger.Warningf("[DeleteRow] %v", err)
		return DeleteResult{}, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%w: got %q", ErrInvalidRowID, rawID)
	}
	n, err := s.records.Delete(ctx, table, id)
	if err != nil {
		return DeleteResult{}, err
	}
	if n > 0 {
		s.metrics.Count(ctx, metrics.RowDeleted, table.Name())
	}
	return DeleteResult{Table: table, ID: id, Removed: n > 0}, nil
}

// AdminOverview is every table rendered on the admin panel.
type AdminOverview struct {
	Abbreviations []models.Abbreviation
	Literature    []models.LiteratureItem
	Stakeholders  []models.Stakeholder
	Users         []models.User
	Events        []models.Event
}

// Overview loads all rows of every table. It reads the store directly so a
// panel view is not counted as a search.
func (s *RecordService) Overview(ctx context.Context) (*AdminOverview, error) {
	var o AdminOverview
	all := func(spec repository.SearchSpec) repository.SearchQuery {
		q, _ := repository.BuildSearch(spec, nil)
		return q
	}

	var err error
	if o.Abbreviations, err = s.records.ListAbbreviations(ctx); err != nil {
		return nil, err
	}
	if o.Literature, err = s.records.SearchLiterature(ctx, all(repository.LiteratureSearch)); err != nil {
		return nil, err
	}
	if o.Stakeholders, err = s.records.SearchStakeholders(ctx, all(repository.StakeholderSearch)); err != nil {
		return nil, err
	}
	if o.Users, err = s.users.List(ctx); err != nil {
		return nil, err
	}
	if o.Events, err = s.records.SearchEvents(ctx, all(repository.EventSearch)); err != nil {
		return nil, err
	}
	return &o, nil
}
