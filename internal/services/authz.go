package services

import (
	"errors"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"gorm.io/gorm"
)

// requireAdmin loads the acting user and verifies the admin role against the
// store. Route middleware gates on the token role already, but privileged
// operations never trust that gate alone.
func requireAdmin(tx *gorm.DB, adminID uint) (*models.User, error) {
	var admin models.User
	if err := tx.Where("id = ? AND is_active = ?", adminID, true).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorizedError("acting user %d not found", adminID)
		}
		return nil, persistenceError("load acting user", err)
	}
	if admin.Role != models.RoleAdmin {
		return nil, unauthorizedError("user %d is not an admin", adminID)
	}
	return &admin, nil
}
