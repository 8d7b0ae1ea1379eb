// internal/models/response.go
package models

import (
	"github.com/google/uuid"
)

// Response is a supplier's proposal against an RFP. The unique index on
// (rfp_id, supplier_id) is the hard guarantee that a supplier submits at
// most once per RFP, whatever the interleaving of concurrent requests.
type Response struct {
	BaseModel
	RFPID        uuid.UUID      `json:"rfp_id" gorm:"type:uuid;not null;uniqueIndex:idx_responses_rfp_supplier"`
	SupplierID   uuid.UUID      `json:"supplier_id" gorm:"type:uuid;not null;uniqueIndex:idx_responses_rfp_supplier"`
	ResponseText string         `json:"response_text" gorm:"size:5000;not null"`
	DocumentURL  string         `json:"document_url" gorm:"size:1024;not null"`
	Status       ResponseStatus `json:"status" gorm:"type:varchar(20);not null;default:'submitted';index"`

	// Relationships
	RFP      *RFP  `json:"rfp,omitempty" gorm:"foreignKey:RFPID"`
	Supplier *User `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// ResponseWithRFP is the listMySubmissions projection: a response joined
// with its parent RFP's title and status.
type ResponseWithRFP struct {
	Response
	RFPTitle  string    `json:"rfp_title"`
	RFPStatus RFPStatus `json:"rfp_status"`
}
