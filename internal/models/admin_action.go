package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Privileged action types recorded in the audit trail.
const (
	ActionApproveComment     = "approve_comment"
	ActionRejectComment      = "reject_comment"
	ActionDeleteComment      = "delete_comment"
	ActionVerifyMerchant     = "verify_merchant"
	ActionDeleteMerchant     = "delete_merchant"
	ActionDeleteUser         = "delete_user"
	ActionUpdateUserRole     = "update_user_role"
	ActionChangeUserPassword = "change_user_password"
)

// Target types referenced by audit entries.
const (
	TargetComment  = "comment"
	TargetMerchant = "merchant"
	TargetUser     = "user"
)

var actionLabels = map[string]string{
	ActionApproveComment:     "Approved a comment",
	ActionRejectComment:      "Rejected a comment",
	ActionDeleteComment:      "Deleted a comment",
	ActionVerifyMerchant:     "Verified a merchant",
	ActionDeleteMerchant:     "Deleted a merchant",
	ActionDeleteUser:         "Deleted a user",
	ActionUpdateUserRole:     "Updated a user role",
	ActionChangeUserPassword: "Changed a user password",
}

// ActionLabel returns the human readable label for an action type.
func ActionLabel(actionType string) string {
	if label, ok := actionLabels[actionType]; ok {
		return label
	}
	return actionType
}

// AdminAction is append-only: rows are never updated or deleted. Seq is the
// insertion order; the UUID is the stable public identifier.
type AdminAction struct {
	Seq        uint      `json:"-" gorm:"primaryKey"`
	ID         uuid.UUID `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	AdminID    uint      `json:"admin_id" gorm:"not null;index"`
	ActionType string    `json:"action_type" gorm:"not null"`
	TargetType string    `json:"target_type" gorm:"not null"`
	TargetID   uint      `json:"target_id" gorm:"not null"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Admin User `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
}

func (a *AdminAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
