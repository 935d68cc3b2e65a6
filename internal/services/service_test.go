package services

import (
	"fmt"
	"testing"

	"github.com/DavidAcosta7/local-commerce-platform/internal/database"
	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory database to avoid cross-test
// interference, with the same schema and seed catalog as production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testServices struct {
	db           *gorm.DB
	audit        *AuditService
	ledger       *ReputationService
	achievements *AchievementService
	comments     *CommentService
	moderation   *ModerationService
	likes        *LikeService
	merchants    *MerchantService
	ranking      *RankingService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	db := setupTestDB(t)
	audit := NewAuditService(db)
	ledger := NewReputationService(db)
	achievements := NewAchievementService(db, ledger)
	return &testServices{
		db:           db,
		audit:        audit,
		ledger:       ledger,
		achievements: achievements,
		comments:     NewCommentService(db),
		moderation:   NewModerationService(db, audit, ledger, achievements),
		likes:        NewLikeService(db, ledger, achievements),
		merchants:    NewMerchantService(db, audit, ledger),
		ranking:      NewRankingService(db),
	}
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Email:       email,
		Password:    "password123",
		DisplayName: email,
		Role:        role,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createMerchant(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Merchant {
	t.Helper()
	merchant := models.Merchant{
		OwnerID:  ownerID,
		Name:     name,
		Category: "cafe",
		IsActive: true,
	}
	require.NoError(t, db.Create(&merchant).Error)
	return &merchant
}

// submitAndApprove runs a comment through the happy moderation path.
func submitAndApprove(t *testing.T, s *testServices, merchantID, authorID, adminID uint) *models.Comment {
	t.Helper()
	comment, err := s.comments.Submit(authorID, CreateCommentRequest{
		MerchantID: merchantID,
		Rating:     4,
		Content:    "Great little shop, highly recommend",
	})
	require.NoError(t, err)
	require.NoError(t, s.moderation.Approve(comment.ID, adminID))
	return comment
}

func auditActions(t *testing.T, db *gorm.DB) []models.AdminAction {
	t.Helper()
	var actions []models.AdminAction
	require.NoError(t, db.Order("seq ASC").Find(&actions).Error)
	return actions
}
