// File: models/table.go
package models

import "fmt"

// ---------------------- deletable tables ----------------------

// Table is one of the tables an admin may delete rows from. Its string form is
// only ever taken from this fixed set, never from client input.
type Table int

const (
	TableStakeholders Table = iota + 1
	TableLiterature
	TableEvents
	TableUsers
)

var tableNames = map[Table]string{
	TableStakeholders: "stakeholders",
	TableLiterature:   "literature",
	TableEvents:       "events",
	TableUsers:        "users",
}

// ErrUnknownTable is returned by ParseTable for names outside the allow-list.
type ErrUnknownTable struct {
	Name string
}

func (e *ErrUnknownTable) Error() string {
	return fmt.Sprintf("table %q cannot be managed", e.Name)
}

// ParseTable maps a submitted table name onto the allow-list.
func ParseTable(name string) (Table, error) {
	for t, n := range tableNames {
		if n == name {
			return t, nil
		}
	}
	return 0, &ErrUnknownTable{Name: name}
}

// Name returns the SQL table name.
func (t Table) Name() string {
	return tableNames[t]
}

func (t Table) String() string {
	return t.Name()
}

// ManagedTables lists the allow-list in a stable order.
func ManagedTables() []Table {
	return []Table{TableStakeholders, TableLiterature, TableEvents, TableUsers}
}
