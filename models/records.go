// File: models/records.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// ------------------------ reference records -----------------------

// Stakeholder is a row of the stakeholders table.
type Stakeholder struct {
	ID          uint   `gorm:"primaryKey" db:"id" json:"id"`
	Name        string `gorm:"not null" db:"name" json:"name"`
	Type        string `gorm:"not null" db:"type" json:"type"`
	Description string `gorm:"not null" db:"description" json:"description"`
	Contact     string `gorm:"not null" db:"contact" json:"contact"`
}

func (Stakeholder) TableName() string { return "stakeholders" }

// LiteratureItem is a row of the literature table. Rating is free text that
// search compares by equality.
type LiteratureItem struct {
	ID           uint   `gorm:"primaryKey" db:"id" json:"id"`
	Title        string `gorm:"not null" db:"title" json:"title"`
	Author       string `gorm:"not null" db:"author" json:"author"`
	Keywords     string `gorm:"not null" db:"keywords" json:"keywords"`
	Rating       string `gorm:"not null" db:"rating" json:"rating"`
	Availability string `gorm:"not null" db:"availability" json:"availability"`
}

func (LiteratureItem) TableName() string { return "literature" }

// Event is a row of the events table.
type Event struct {
	ID          uint           `gorm:"primaryKey" db:"id" json:"id"`
	Name        string         `gorm:"not null" db:"name" json:"name"`
	Description string         `gorm:"not null" db:"description" json:"description"`
	Country     string         `gorm:"not null" db:"country" json:"country"`
	Time        datatypes.Date `gorm:"column:time;not null" db:"time" json:"time"`
	Info        string         `gorm:"not null" db:"info" json:"info"`
}

func (Event) TableName() string { return "events" }

// Date returns the event date as YYYY-MM-DD.
func (e Event) Date() string {
	return time.Time(e.Time).Format(DateLayout)
}

// Abbreviation is a row of the read-only abbrevations lookup table.
type Abbreviation struct {
	Abbreviation string `gorm:"column:abbrevation;primaryKey" db:"abbrevation" json:"abbreviation"`
	Explanation  string `gorm:"not null" db:"explanation" json:"explanation"`
}

func (Abbreviation) TableName() string { return "abbrevations" }

// DateLayout is the only accepted format for an event date on insert.
const DateLayout = "2006-01-02"
