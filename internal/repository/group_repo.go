package repository

import (
	"errors"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GroupRepository handles database operations for care groups and group
// messages. Membership sets (participant_ids, muted_by, left_by, read_by)
// are text[] columns mutated with guarded array_append / array_remove, so
// every mutation is a single atomic statement and repeats are no-ops.
type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a new care group
func (r *GroupRepository) Create(group *model.CareGroup) error {
	if err := r.db.Create(group).Error; err != nil {
		return apperr.Internal("failed to create group", err)
	}
	return nil
}

// FindByID finds a group by id
func (r *GroupRepository) FindByID(id uuid.UUID) (*model.CareGroup, error) {
	var group model.CareGroup
	err := r.db.Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("group not found")
		}
		return nil, apperr.Internal("failed to load group", err)
	}
	return &group, nil
}

// ListForUser returns the groups the user belongs to and has not left,
// latest activity first.
func (r *GroupRepository) ListForUser(userID uuid.UUID) ([]model.CareGroup, error) {
	groups := []model.CareGroup{}
	err := r.db.
		Where("(caregiver_id = ? OR ? = ANY(participant_ids)) AND NOT (? = ANY(left_by))",
			userID, userID.String(), userID.String()).
		Order("updated_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, apperr.Internal("failed to list groups", err)
	}
	return groups, nil
}

// UpdateParticipants replaces the group's parent set
func (r *GroupRepository) UpdateParticipants(groupID uuid.UUID, participantIDs []string) error {
	err := r.db.Model(&model.CareGroup{}).
		Where("id = ?", groupID).
		Update("participant_ids", pq.StringArray(participantIDs)).Error
	if err != nil {
		return apperr.Internal("failed to update participants", err)
	}
	return nil
}

// SetMuted toggles the user's membership in the group's muted set
func (r *GroupRepository) SetMuted(groupID, userID uuid.UUID, muted bool) error {
	var err error
	if muted {
		err = r.db.Model(&model.CareGroup{}).
			Where("id = ? AND NOT (? = ANY(muted_by))", groupID, userID.String()).
			Update("muted_by", gorm.Expr("array_append(muted_by, ?)", userID.String())).Error
	} else {
		err = r.db.Model(&model.CareGroup{}).
			Where("id = ?", groupID).
			Update("muted_by", gorm.Expr("array_remove(muted_by, ?)", userID.String())).Error
	}
	if err != nil {
		return apperr.Internal("failed to update mute state", err)
	}
	return nil
}

// MarkLeft adds the user to the group's left set. The participant entry
// itself is retained; leaving is soft state.
func (r *GroupRepository) MarkLeft(groupID, userID uuid.UUID) error {
	err := r.db.Model(&model.CareGroup{}).
		Where("id = ? AND NOT (? = ANY(left_by))", groupID, userID.String()).
		Update("left_by", gorm.Expr("array_append(left_by, ?)", userID.String())).Error
	if err != nil {
		return apperr.Internal("failed to leave group", err)
	}
	return nil
}

// ClearLeft removes the user from the group's left set (rejoin)
func (r *GroupRepository) ClearLeft(groupID, userID uuid.UUID) error {
	err := r.db.Model(&model.CareGroup{}).
		Where("id = ?", groupID).
		Update("left_by", gorm.Expr("array_remove(left_by, ?)", userID.String())).Error
	if err != nil {
		return apperr.Internal("failed to rejoin group", err)
	}
	return nil
}

// ParentInOtherGroup reports whether the parent is already a member of a
// group owned by a different caregiver. One group membership per parent is
// enforced at creation time.
func (r *GroupRepository) ParentInOtherGroup(parentID, caregiverID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.CareGroup{}).
		Where("? = ANY(participant_ids) AND caregiver_id <> ?", parentID.String(), caregiverID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check group membership", err)
	}
	return count > 0, nil
}

// TouchUpdatedAt bumps the group's updated_at (to sort by latest activity).
// Deliberately a separate write from message insertion; a crash in between
// leaves a stale timestamp, not corruption.
func (r *GroupRepository) TouchUpdatedAt(groupID uuid.UUID) error {
	err := r.db.Model(&model.CareGroup{}).
		Where("id = ?", groupID).
		Update("updated_at", gorm.Expr("NOW()")).Error
	if err != nil {
		return apperr.Internal("failed to touch group", err)
	}
	return nil
}

// CreateMessage inserts a group message with its attachment rows
func (r *GroupRepository) CreateMessage(msg *model.GroupMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return apperr.Internal("failed to store group message", err)
	}
	return nil
}

// ListMessages returns a group's messages oldest-first
func (r *GroupRepository) ListMessages(groupID uuid.UUID) ([]model.GroupMessage, error) {
	messages := []model.GroupMessage{}
	err := r.db.
		Preload("Attachments").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal("failed to load group messages", err)
	}
	return messages, nil
}

// MarkMessagesRead adds the user to read_by on every group message not
// already marked; idempotent.
func (r *GroupRepository) MarkMessagesRead(groupID, userID uuid.UUID) error {
	err := r.db.Model(&model.GroupMessage{}).
		Where("group_id = ? AND NOT (? = ANY(read_by))", groupID, userID.String()).
		Update("read_by", gorm.Expr("array_append(read_by, ?)", userID.String())).Error
	if err != nil {
		return apperr.Internal("failed to mark group messages read", err)
	}
	return nil
}

// ListMessagesWithAttachments returns every group message still carrying at
// least one attachment. Used by the retention sweep.
func (r *GroupRepository) ListMessagesWithAttachments() ([]model.GroupMessage, error) {
	messages := []model.GroupMessage{}
	err := r.db.
		Preload("Attachments").
		Where("EXISTS (SELECT 1 FROM attachments a WHERE a.owner_type = ? AND a.owner_id = group_messages.id)",
			model.AttachmentOwnerGroupMessage).
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal("failed to load group messages with attachments", err)
	}
	return messages, nil
}

// DeleteMessageAttachments hard-deletes attachment rows by id
func (r *GroupRepository) DeleteMessageAttachments(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Where("id IN ?", ids).Delete(&model.Attachment{}).Error
	if err != nil {
		return apperr.Internal("failed to delete attachments", err)
	}
	return nil
}
