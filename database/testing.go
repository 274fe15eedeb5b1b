// File: database/testing.go
package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// OpenTest returns a migrated, private in-memory SQLite database that is
// closed when the test ends.
func OpenTest(t testing.TB) *DB {
	t.Helper()
	url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(url, false)
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
