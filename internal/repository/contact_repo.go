package repository

import (
	"time"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactRepository handles database operations for caregiver contacts
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Upsert creates the contact or refreshes its updated_at when the
// (caregiver, parent) pair already exists
func (r *ContactRepository) Upsert(contact *model.CaregiverContact) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "caregiver_id"}, {Name: "parent_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"updated_at": time.Now(),
		}),
	}).Create(contact).Error
	if err != nil {
		return apperr.Internal("failed to save contact", err)
	}
	return nil
}

// Delete removes a contact pair; a missing pair is NotFound
func (r *ContactRepository) Delete(caregiverID, parentID uuid.UUID) error {
	res := r.db.
		Where("caregiver_id = ? AND parent_id = ?", caregiverID, parentID).
		Delete(&model.CaregiverContact{})
	if res.Error != nil {
		return apperr.Internal("failed to delete contact", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("contact not found")
	}
	return nil
}

// ListByCaregiver returns the caregiver's contacts, most recently touched first
func (r *ContactRepository) ListByCaregiver(caregiverID uuid.UUID) ([]model.CaregiverContact, error) {
	contacts := []model.CaregiverContact{}
	err := r.db.
		Where("caregiver_id = ?", caregiverID).
		Order("updated_at DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, apperr.Internal("failed to list contacts", err)
	}
	return contacts, nil
}
