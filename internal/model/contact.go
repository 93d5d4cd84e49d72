package model

import (
	"time"

	"github.com/google/uuid"
)

// CaregiverContact is an address-book entry a caregiver keeps for a parent,
// independent of any conversation or group membership. Unique per
// (caregiver, parent) pair.
type CaregiverContact struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaregiverID uuid.UUID `json:"caregiver_id" gorm:"type:uuid;not null;uniqueIndex:idx_caregiver_parent"`
	ParentID    uuid.UUID `json:"parent_id" gorm:"type:uuid;not null;uniqueIndex:idx_caregiver_parent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PartnerContact is a parent derived from a caregiver's direct-message
// history, carrying the most recent contact time.
type PartnerContact struct {
	PartnerID     uuid.UUID `json:"partner_id"`
	LastContactAt time.Time `json:"last_contact_at"`
}
