package repository

import (
	"errors"
	"time"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for User profiles and devices
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID finds a user by UUID
func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

// AddDevice adds or refreshes a device token
func (r *UserRepository) AddDevice(userID uuid.UUID, token string, deviceType string) error {
	device := model.UserDevice{
		UserID:       userID,
		FCMToken:     token,
		DeviceType:   deviceType,
		LastActiveAt: time.Now(),
	}
	// Upsert: on conflict do update
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "fcm_token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_active_at": time.Now(),
			"device_type":    deviceType,
		}),
	}).Create(&device).Error
	if err != nil {
		return apperr.Internal("failed to register device", err)
	}
	return nil
}

// GetUserDevices gets all devices for a user
func (r *UserRepository) GetUserDevices(userID uuid.UUID) ([]model.UserDevice, error) {
	var devices []model.UserDevice
	err := r.db.Where("user_id = ?", userID).Find(&devices).Error
	if err != nil {
		return nil, apperr.Internal("failed to load devices", err)
	}
	return devices, nil
}

// SetNotificationEnabled flips the user's notification preference
func (r *UserRepository) SetNotificationEnabled(userID uuid.UUID, enabled bool) error {
	res := r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("is_notification_enabled", enabled)
	if res.Error != nil {
		return apperr.Internal("failed to update notification setting", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// DeleteDevice removes a single device token for a user
func (r *UserRepository) DeleteDevice(userID uuid.UUID, token string) error {
	err := r.db.
		Where("user_id = ? AND fcm_token = ?", userID, token).
		Delete(&model.UserDevice{}).Error
	if err != nil {
		return apperr.Internal("failed to delete device", err)
	}
	return nil
}
