package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CareGroup is a caregiver-owned broadcast channel to a set of parents.
// Membership state is soft: a parent who leaves is added to LeftBy but never
// removed from ParticipantIDs, so the historical record survives for audit.
type CareGroup struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaregiverID    uuid.UUID      `json:"caregiver_id" gorm:"type:uuid;not null;index"`
	Name           string         `json:"name" gorm:"size:100;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	CareTimes      string         `json:"care_times" gorm:"size:255"`
	AdminIDs       pq.StringArray `json:"admin_ids" gorm:"type:text[];not null;default:'{}'"`
	ParticipantIDs pq.StringArray `json:"participant_ids" gorm:"type:text[];not null;default:'{}'"`
	MutedBy        pq.StringArray `json:"muted_by" gorm:"type:text[];not null;default:'{}'"`
	LeftBy         pq.StringArray `json:"left_by" gorm:"type:text[];not null;default:'{}'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// AllParticipantIDs is the owning caregiver plus every parent ever added.
func (g *CareGroup) AllParticipantIDs() []string {
	all := make([]string, 0, len(g.ParticipantIDs)+1)
	all = append(all, g.CaregiverID.String())
	all = append(all, g.ParticipantIDs...)
	return all
}

// HasParticipant reports whether userID is the caregiver or a parent member.
func (g *CareGroup) HasParticipant(userID uuid.UUID) bool {
	return userID == g.CaregiverID || containsID(g.ParticipantIDs, userID)
}

// HasLeft reports whether userID has left the group.
func (g *CareGroup) HasLeft(userID uuid.UUID) bool {
	return containsID(g.LeftBy, userID)
}

// HasMuted reports whether userID has muted the group.
func (g *CareGroup) HasMuted(userID uuid.UUID) bool {
	return containsID(g.MutedBy, userID)
}

// GroupMessage is a caregiver broadcast into a care group. ParticipantIDs is
// a snapshot of the group's full participant set at send time; later
// membership changes do not rewrite history. Write-once except ReadBy and
// Attachments.
type GroupMessage struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID        uuid.UUID      `json:"group_id" gorm:"type:uuid;not null;index:idx_group_created"`
	SenderID       uuid.UUID      `json:"sender_id" gorm:"type:uuid;not null"`
	ParticipantIDs pq.StringArray `json:"participant_ids" gorm:"type:text[];not null"`
	Body           string         `json:"body" gorm:"type:text"`
	ReadBy         pq.StringArray `json:"read_by" gorm:"type:text[];not null;default:'{}'"`
	CreatedAt      time.Time      `json:"created_at" gorm:"index:idx_group_created"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Relations
	Attachments []Attachment `json:"attachments" gorm:"polymorphic:Owner;polymorphicValue:group_message"`
}
