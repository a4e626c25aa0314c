package entity

import (
	"time"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusRejected RequestStatus = "REJECTED"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusRejected, RequestStatusAccepted:
		return true
	}
	return false
}

const MaxCommentLength = 2000

// Request is a contractor's bid against an ad. AdID may become empty if the
// ad is removed later; such orphaned requests cannot be accepted anymore.
type Request struct {
	ID              string
	Comment         string
	ContractorID    string
	ContractorEmail string
	AdID            string
	Status          RequestStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ValidateComment(comment string) error {
	ve := &ValidationError{}
	if len(comment) > MaxCommentLength {
		ve.add("comment", "is too long")
	}
	return ve.orNil()
}

// NewRequest builds a pending request from contractor against adID.
func NewRequest(adID string, contractor Actor, comment string) (*Request, error) {
	if err := ValidateComment(comment); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Request{
		Comment:         comment,
		ContractorID:    contractor.ID,
		ContractorEmail: contractor.Email,
		AdID:            adID,
		Status:          RequestStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
