// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IDs are assigned application-side so the same models run against
// Postgres in production and sqlite in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type UserRole string

const (
	UserRoleBuyer    UserRole = "buyer"
	UserRoleSupplier UserRole = "supplier"
)

type RFPStatus string

const (
	RFPStatusDraft             RFPStatus = "draft"
	RFPStatusPublished         RFPStatus = "published"
	RFPStatusResponseSubmitted RFPStatus = "response_submitted"
	RFPStatusUnderReview       RFPStatus = "under_review"
	RFPStatusApproved          RFPStatus = "approved"
	RFPStatusRejected          RFPStatus = "rejected"
)

type ResponseStatus string

const (
	ResponseStatusSubmitted ResponseStatus = "submitted"
	ResponseStatusApproved  ResponseStatus = "approved"
	ResponseStatusRejected  ResponseStatus = "rejected"
)

// OpenForResponses reports whether suppliers may still submit against an
// RFP in this status.
func (s RFPStatus) OpenForResponses() bool {
	return s == RFPStatusPublished || s == RFPStatusResponseSubmitted
}

// Terminal reports whether the RFP has been resolved and accepts no
// further transitions.
func (s RFPStatus) Terminal() bool {
	return s == RFPStatusApproved || s == RFPStatusRejected
}
