// internal/models/rfp.go
package models

import (
	"github.com/google/uuid"
)

// RFP is a Request for Proposal owned by a buyer. Title and description
// are editable only while the RFP is still a draft; buyer_id and
// document_url never change after creation.
type RFP struct {
	BaseModel
	BuyerID     uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:5000;not null"`
	DocumentURL string    `json:"document_url" gorm:"size:1024;not null"`
	Status      RFPStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`

	// Relationships
	Buyer     *User      `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:RFPID"`
}
