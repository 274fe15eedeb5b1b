// File: repository/record_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"go-refdata/logger"
	"go-refdata/models"
)

// ErrAbbreviationNotFound is returned by LookupAbbreviation on a miss.
var ErrAbbreviationNotFound = errors.New("abbreviation not found")

const (
	insertStakeholderSQL  = `INSERT INTO stakeholders (name, type, description, contact) VALUES (:name, :type, :description, :contact)`
	insertLiteratureSQL   = `INSERT INTO literature (title, author, keywords, rating, availability) VALUES (:title, :author, :keywords, :rating, :availability)`
	insertEventSQL        = `INSERT INTO events (name, description, country, time, info) VALUES (:name, :description, :country, :time, :info)`
	lookupAbbreviationSQL = `SELECT abbrevation, explanation FROM abbrevations WHERE abbrevation = ?`
	listAbbreviationsSQL  = `SELECT abbrevation, explanation FROM abbrevations ORDER BY abbrevation`
)

// RecordRepository runs the reference-data statements through sqlx.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository wraps an sqlx handle.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// ---------------- inserts ----------------

func (r *RecordRepository) InsertStakeholder(ctx context.Context, s *models.Stakeholder) error {
	return r.insert(ctx, "stakeholders", insertStakeholderSQL, s)
}

func (r *RecordRepository) InsertLiterature(ctx context.Context, l *models.LiteratureItem) error {
	return r.insert(ctx, "literature", insertLiteratureSQL, l)
}

func (r *RecordRepository) InsertEvent(ctx context.Context, e *models.Event) error {
	return r.insert(ctx, "events", insertEventSQL, e)
}

func (r *RecordRepository) insert(ctx context.Context, table, query string, arg interface{}) error {
	if _, err := r.db.NamedExecContext(ctx, query, arg); err != nil {
		logger.Errorf("[Repo] insert into %s failed: %v", table, err)
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	logger.Debugf("[Repo] inserted row into %s", table)
	return nil
}

// ---------------- searches ----------------

func (r *RecordRepository) SearchStakeholders(ctx context.Context, q SearchQuery) ([]models.Stakeholder, error) {
	var out []models.Stakeholder
	return out, r.selectNamed(ctx, &out, q)
}

func (r *RecordRepository) SearchLiterature(ctx context.Context, q SearchQuery) ([]models.LiteratureItem, error) {
	var out []models.LiteratureItem
	return out, r.selectNamed(ctx, &out, q)
}

func (r *RecordRepository) SearchEvents(ctx context.Context, q SearchQuery) ([]models.Event, error) {
	var out []models.Event
	return out, r.selectNamed(ctx, &out, q)
}

// selectNamed binds the named query in the driver's placeholder style.
func (r *RecordRepository) selectNamed(ctx context.Context, dest interface{}, q SearchQuery) error {
	query, args, err := sqlx.Named(q.SQL, q.Args)
	if err != nil {
		return fmt.Errorf("bind search: %w", err)
	}
	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		logger.Errorf("[Repo] search failed (%s): %v", query, err)
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

// ---------------- abbreviations ----------------

// LookupAbbreviation finds the explanation for an exact abbreviation.
func (r *RecordRepository) LookupAbbreviation(ctx context.Context, abbreviation string) (*models.Abbreviation, error) {
	var a models.Abbreviation
	err := r.db.GetContext(ctx, &a, r.db.Rebind(lookupAbbreviationSQL), abbreviation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAbbreviationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup abbreviation: %w", err)
	}
	return &a, nil
}

// ListAbbreviations returns the whole lookup table.
func (r *RecordRepository) ListAbbreviations(ctx context.Context) ([]models.Abbreviation, error) {
	var out []models.Abbreviation
	if err := r.db.SelectContext(ctx, &out, listAbbreviationsSQL); err != nil {
		return nil, fmt.Errorf("list abbreviations: %w", err)
	}
	return out, nil
}

// ---------------- deletes ----------------

// Delete removes the row with id from an allow-listed table and returns the
// number of rows removed.
func (r *RecordRepository) Delete(ctx context.Context, table models.Table, id int64) (int64, error) {
	name := table.Name()
	if name == "" {
		return 0, &models.ErrUnknownTable{Name: table.String()}
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM "+name+" WHERE id = ?"), id)
	if err != nil {
		logger.Errorf("[Repo] delete from %s id=%d failed: %v", name, id, err)
		return 0, fmt.Errorf("delete from %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", name, err)
	}
	logger.Infof("[Repo] deleted %d row(s) from %s where id=%d", n, name, id)
	return n, nil
}
