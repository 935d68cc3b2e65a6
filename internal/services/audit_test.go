package services

import (
	"testing"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestListRecentNewestFirst(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)

	types := []string{
		models.ActionApproveComment,
		models.ActionRejectComment,
		models.ActionVerifyMerchant,
	}
	for i, actionType := range types {
		require.NoError(t, s.db.Transaction(func(tx *gorm.DB) error {
			return s.audit.Record(tx, admin.ID, actionType, models.TargetComment, uint(i+1), nil)
		}))
	}

	entries, err := s.audit.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, models.ActionVerifyMerchant, entries[0].ActionType)
	require.Equal(t, models.ActionApproveComment, entries[2].ActionType)
	require.Equal(t, admin.DisplayName, entries[0].AdminName)
	require.Equal(t, "Verified a merchant", entries[0].Label)
}

// Rows written in one transaction share a timestamp; the feed must still
// come back in insertion order.
func TestListRecentStableWithinOneTransaction(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)

	types := []string{
		models.ActionApproveComment,
		models.ActionRejectComment,
		models.ActionDeleteComment,
		models.ActionVerifyMerchant,
		models.ActionDeleteMerchant,
	}
	require.NoError(t, s.db.Transaction(func(tx *gorm.DB) error {
		for i, actionType := range types {
			if err := s.audit.Record(tx, admin.ID, actionType, models.TargetComment, uint(i+1), nil); err != nil {
				return err
			}
		}
		return nil
	}))

	for trial := 0; trial < 3; trial++ {
		entries, err := s.audit.ListRecent(10)
		require.NoError(t, err)
		require.Len(t, entries, len(types))
		for i, actionType := range types {
			require.Equal(t, actionType, entries[len(types)-1-i].ActionType)
		}
	}
}

func TestRecordCarriesDetails(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)

	require.NoError(t, s.db.Transaction(func(tx *gorm.DB) error {
		return s.audit.Record(tx, admin.ID, models.ActionDeleteComment, models.TargetComment, 7, map[string]interface{}{
			"was_approved": true,
		})
	}))

	entries, err := s.audit.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, uint(7), entries[0].TargetID)
	require.Equal(t, true, entries[0].Details["was_approved"])
}

// The audit row rolls back with the mutation it documents.
func TestRecordRollsBackWithTransaction(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.audit.Record(tx, admin.ID, models.ActionApproveComment, models.TargetComment, 1, nil); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.Error(t, err)

	entries, err := s.audit.ListRecent(10)
	require.NoError(t, err)
	require.Empty(t, entries)
}
