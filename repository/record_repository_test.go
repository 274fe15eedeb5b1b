// file: repository/record_repository_test.go
package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"go-refdata/database"
	"go-refdata/models"
	"go-refdata/repository"
)

// ---------------- sqlmock: exact statements ----------------

func setupRecordRepoMock(t *testing.T) (*repository.RecordRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewRecordRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestInsertStakeholder_BindsEveryColumn(t *testing.T) {
	repo, mock := setupRecordRepoMock(t)

	mock.ExpectExec(`INSERT INTO stakeholders (name, type, description, contact) VALUES (?, ?, ?, ?)`).
		WithArgs("Acme", "Company", "Makes things", "acme@example.com").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertStakeholder(context.Background(), &models.Stakeholder{
		Name: "Acme", Type: "Company", Description: "Makes things", Contact: "acme@example.com",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_UsesAllowListedTableAndBoundID(t *testing.T) {
	repo, mock := setupRecordRepoMock(t)

	mock.ExpectExec(`DELETE FROM stakeholders WHERE id = ?`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Delete(context.Background(), models.TableStakeholders, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_UnknownTableNeverReachesDriver(t *testing.T) {
	repo, mock := setupRecordRepoMock(t)

	_, err := repo.Delete(context.Background(), models.Table(42), 1)
	var unknown *models.ErrUnknownTable
	assert.True(t, errors.As(err, &unknown))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_DriverErrorPropagates(t *testing.T) {
	repo, mock := setupRecordRepoMock(t)

	mock.ExpectQuery(`SELECT id, name, type, description, contact FROM stakeholders WHERE 1=1 AND LOWER(name) LIKE LOWER(?) ORDER BY id`).
		WithArgs("%acme%").
		WillReturnError(errors.New("connection reset"))

	q, err := repository.BuildSearch(repository.StakeholderSearch, map[string]string{"name": "ACME"})
	require.NoError(t, err)

	_, err = repo.SearchStakeholders(context.Background(), q)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------- sqlite: search semantics ----------------

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func seedRecords(t *testing.T) (*repository.RecordRepository, *database.DB) {
	t.Helper()
	db := database.OpenTest(t)
	repo := repository.NewRecordRepository(db.SQL)
	ctx := context.Background()

	for _, s := range []models.Stakeholder{
		{Name: "ACME Corp", Type: "Company", Description: "Widgets", Contact: "a@acme.test"},
		{Name: "acme", Type: "NGO", Description: "Lowercase", Contact: "b@acme.test"},
		{Name: "Acmeo", Type: "Company", Description: "Suffix", Contact: "c@acmeo.test"},
		{Name: "Globex", Type: "Company", Description: "Other", Contact: "d@globex.test"},
	} {
		s := s
		require.NoError(t, repo.InsertStakeholder(ctx, &s))
	}

	for _, l := range []models.LiteratureItem{
		{Title: "The Hobbit", Author: "Tolkien", Keywords: "fantasy", Rating: "5", Availability: "Library"},
		{Title: "Dune", Author: "Herbert", Keywords: "sci-fi", Rating: "4", Availability: "Online"},
		{Title: "Silmarillion", Author: "Tolkien", Keywords: "fantasy", Rating: "4", Availability: "Library"},
	} {
		l := l
		require.NoError(t, repo.InsertLiterature(ctx, &l))
	}

	for _, e := range []models.Event{
		{Name: "Spring Summit", Description: "d", Country: "Finland", Time: date(2024, 3, 15), Info: "i"},
		{Name: "March Meetup", Description: "d", Country: "Sweden", Time: date(2024, 3, 2), Info: "i"},
		{Name: "Autumn Forum", Description: "d", Country: "Finland", Time: date(2024, 10, 1), Info: "i"},
		{Name: "Old Forum", Description: "d", Country: "Norway", Time: date(2023, 3, 15), Info: "i"},
	} {
		e := e
		require.NoError(t, repo.InsertEvent(ctx, &e))
	}
	return repo, db
}

func TestSearchStakeholders_SQLite(t *testing.T) {
	repo, _ := seedRecords(t)
	ctx := context.Background()

	q, err := repository.BuildSearch(repository.StakeholderSearch, map[string]string{})
	require.NoError(t, err)
	all, err := repo.SearchStakeholders(ctx, q)
	require.NoError(t, err)
	assert.Len(t, all, 4, "no filters returns every row")

	q, err = repository.BuildSearch(repository.StakeholderSearch, map[string]string{"name": "Acme"})
	require.NoError(t, err)
	got, err := repo.SearchStakeholders(ctx, q)
	require.NoError(t, err)

	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"ACME Corp", "acme", "Acmeo"}, names)

	q, err = repository.BuildSearch(repository.StakeholderSearch, map[string]string{"name": "acme", "type": "ngo"})
	require.NoError(t, err)
	got, err = repo.SearchStakeholders(ctx, q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "acme", got[0].Name)
}

func TestSearchStakeholders_TrailingSpaceIsPartOfMatch(t *testing.T) {
	repo, _ := seedRecords(t)

	q, err := repository.BuildSearch(repository.StakeholderSearch, map[string]string{"name": "acme "})
	require.NoError(t, err)
	got, err := repo.SearchStakeholders(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ACME Corp", got[0].Name)
}

func TestSearchLiterature_RatingExact(t *testing.T) {
	repo, _ := seedRecords(t)

	q, err := repository.BuildSearch(repository.LiteratureSearch, map[string]string{"rating": "4", "author": "tolk"})
	require.NoError(t, err)
	got, err := repo.SearchLiterature(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Silmarillion", got[0].Title)
}

func TestSearchEvents_DateGranularities(t *testing.T) {
	repo, _ := seedRecords(t)
	ctx := context.Background()

	search := func(value string) []string {
		q, err := repository.BuildSearch(repository.EventSearch, map[string]string{"time": value})
		require.NoError(t, err)
		got, err := repo.SearchEvents(ctx, q)
		require.NoError(t, err)
		var names []string
		for _, e := range got {
			names = append(names, e.Name)
		}
		return names
	}

	assert.ElementsMatch(t, []string{"Spring Summit", "March Meetup", "Autumn Forum"}, search("2024"))
	assert.ElementsMatch(t, []string{"Spring Summit", "March Meetup"}, search("2024-03"))
	assert.ElementsMatch(t, []string{"Spring Summit"}, search("2024-03-15"))
	assert.Len(t, search(""), 4)
}

func TestLookupAbbreviation(t *testing.T) {
	repo, db := seedRecords(t)
	ctx := context.Background()
	require.NoError(t, db.Gorm.Create(&models.Abbreviation{Abbreviation: "NGO", Explanation: "Non-governmental organisation"}).Error)

	a, err := repo.LookupAbbreviation(ctx, "NGO")
	require.NoError(t, err)
	assert.Equal(t, "Non-governmental organisation", a.Explanation)

	_, err = repo.LookupAbbreviation(ctx, "ngo")
	assert.ErrorIs(t, err, repository.ErrAbbreviationNotFound, "lookup is exact")

	all, err := repo.ListAbbreviations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDelete_SQLiteRemovesOnlyTargetRow(t *testing.T) {
	repo, _ := seedRecords(t)
	ctx := context.Background()

	n, err := repo.Delete(ctx, models.TableStakeholders, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	q, _ := repository.BuildSearch(repository.StakeholderSearch, nil)
	rest, err := repo.SearchStakeholders(ctx, q)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	for _, s := range rest {
		assert.NotEqual(t, uint(2), s.ID)
	}

	n, err = repo.Delete(ctx, models.TableStakeholders, 999)
	require.NoError(t, err)
	assert.Zero(t, n)
}
