package entity

import (
	"strings"
	"time"
)

type AdStatus string

const (
	AdStatusPublished    AdStatus = "PUBLISHED"
	AdStatusCancelled    AdStatus = "CANCELLED"
	AdStatusAccepted     AdStatus = "ACCEPTED"
	AdStatusAccomplished AdStatus = "ACCOMPLISHED"
)

func (s AdStatus) Valid() bool {
	switch s {
	case AdStatusPublished, AdStatusCancelled, AdStatusAccepted, AdStatusAccomplished:
		return true
	}
	return false
}

// Terminal reports whether no transition leads out of the status.
func (s AdStatus) Terminal() bool {
	return s == AdStatusCancelled || s == AdStatusAccomplished
}

const (
	MaxTitleLength           = 100
	MaxDescriptionLength     = 2000
	MaxEditDescriptionLength = 1000
	MaxAddressLength         = 100
	MaxContactNumberLength   = 25
)

type Ad struct {
	ID                  string
	Title               string
	Description         string
	Address             string
	Budget              int
	ContactNumber       string
	AuthorID            string
	Status              AdStatus
	PreviewImageSource  string
	AccomplishFromDate  *time.Time
	AccomplishUntilDate *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int
}

// AdFields carries the mutable ad attributes supplied on create and edit.
type AdFields struct {
	Title               string
	Description         string
	Address             string
	Budget              int
	ContactNumber       string
	AccomplishFromDate  *time.Time
	AccomplishUntilDate *time.Time
}

// Validate checks field and date constraints. The description limit differs
// between create and edit, so the caller passes it in.
func (f AdFields) Validate(maxDescription int) error {
	ve := &ValidationError{}

	if strings.TrimSpace(f.Title) == "" {
		ve.add("title", "is required")
	} else if len(f.Title) > MaxTitleLength {
		ve.add("title", "is too long")
	}
	if len(f.Description) > maxDescription {
		ve.add("description", "is too long")
	}
	if strings.TrimSpace(f.Address) == "" {
		ve.add("address", "is required")
	} else if len(f.Address) > MaxAddressLength {
		ve.add("address", "is too long")
	}
	if f.Budget < 0 {
		ve.add("budget", "cannot be negative")
	}
	if strings.TrimSpace(f.ContactNumber) == "" {
		ve.add("contactNumber", "is required")
	} else if len(f.ContactNumber) > MaxContactNumberLength {
		ve.add("contactNumber", "is too long")
	}

	today := startOfToday()
	if f.AccomplishFromDate != nil && f.AccomplishFromDate.Before(today) {
		ve.add("accomplishFromDate", "cannot be earlier than today's date")
	}
	if f.AccomplishUntilDate != nil && f.AccomplishUntilDate.Before(today) {
		ve.add("accomplishUntilDate", "cannot be earlier than today's date")
	}
	if f.AccomplishFromDate != nil && f.AccomplishUntilDate != nil &&
		f.AccomplishUntilDate.Before(*f.AccomplishFromDate) {
		ve.add("accomplishUntilDate", "cannot be earlier than accomplish from date")
	}

	return ve.orNil()
}

// NewAd builds a published ad owned by authorID. Every ad starts life as
// PUBLISHED regardless of input.
func NewAd(authorID string, f AdFields) (*Ad, error) {
	if err := f.Validate(MaxDescriptionLength); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Ad{
		Title:               f.Title,
		Description:         f.Description,
		Address:             f.Address,
		Budget:              f.Budget,
		ContactNumber:       f.ContactNumber,
		AuthorID:            authorID,
		Status:              AdStatusPublished,
		AccomplishFromDate:  f.AccomplishFromDate,
		AccomplishUntilDate: f.AccomplishUntilDate,
		CreatedAt:           now,
		UpdatedAt:           now,
		Version:             1,
	}, nil
}

// ApplyEdit replaces the mutable fields, clears the preview reference
// (reassigned by the caller) and refreshes the update timestamp. Creation
// time, status, author and version are preserved.
func (a *Ad) ApplyEdit(f AdFields) error {
	if err := f.Validate(MaxEditDescriptionLength); err != nil {
		return err
	}
	a.Title = f.Title
	a.Description = f.Description
	a.Address = f.Address
	a.Budget = f.Budget
	a.ContactNumber = f.ContactNumber
	a.AccomplishFromDate = f.AccomplishFromDate
	a.AccomplishUntilDate = f.AccomplishUntilDate
	a.PreviewImageSource = ""
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
