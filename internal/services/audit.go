package services

import (
	"encoding/json"
	"time"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditEntry struct {
	ID         string                 `json:"id"`
	AdminID    uint                   `json:"admin_id"`
	AdminName  string                 `json:"admin_name"`
	ActionType string                 `json:"action_type"`
	Label      string                 `json:"label"`
	TargetType string                 `json:"target_type"`
	TargetID   uint                   `json:"target_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Record appends one AdminAction inside the caller's transaction so the audit
// row commits or rolls back together with the mutation it documents. details
// may be nil.
func (s *AuditService) Record(tx *gorm.DB, adminID uint, actionType, targetType string, targetID uint, details map[string]interface{}) error {
	action := models.AdminAction{
		AdminID:    adminID,
		ActionType: actionType,
		TargetType: targetType,
		TargetID:   targetID,
	}

	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return persistenceError("encode audit details", err)
		}
		action.Details = string(payload)
	}

	if err := tx.Create(&action).Error; err != nil {
		return persistenceError("record admin action", err)
	}
	return nil
}

// ListRecent returns the newest entries first. Ordering is on the insertion
// sequence, not the timestamp: rows written in the same transaction share a
// wall-clock instant and would otherwise come back in arbitrary order.
func (s *AuditService) ListRecent(limit int) ([]AuditEntry, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var actions []models.AdminAction
	err := s.db.Preload("Admin").
		Order("seq DESC").
		Limit(limit).
		Find(&actions).Error
	if err != nil {
		return nil, persistenceError("list admin actions", err)
	}

	entries := make([]AuditEntry, 0, len(actions))
	for _, action := range actions {
		entry := AuditEntry{
			ID:         action.ID.String(),
			AdminID:    action.AdminID,
			AdminName:  action.Admin.DisplayName,
			ActionType: action.ActionType,
			Label:      models.ActionLabel(action.ActionType),
			TargetType: action.TargetType,
			TargetID:   action.TargetID,
			CreatedAt:  action.CreatedAt,
		}
		if action.Details != "" {
			var details map[string]interface{}
			if err := json.Unmarshal([]byte(action.Details), &details); err == nil {
				entry.Details = details
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
