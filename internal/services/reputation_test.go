package services

import (
	"testing"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Ledger/source-of-truth equivalence: after any mix of approvals, rejections,
// likes and deletions, the maintained stats must equal a full recompute.
func TestRecomputeMatchesIncrementalState(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)
	merchant := createMerchant(t, s.db, admin.ID, "Corner Cafe")
	author := createUser(t, s.db, "author@test.local", models.RoleCustomer)
	likerA := createUser(t, s.db, "liker-a@test.local", models.RoleCustomer)
	likerB := createUser(t, s.db, "liker-b@test.local", models.RoleCustomer)

	first := submitAndApprove(t, s, merchant.ID, author.ID, admin.ID)
	second := submitAndApprove(t, s, merchant.ID, author.ID, admin.ID)

	// A pending comment that gets rejected contributes nothing.
	rejected, err := s.comments.Submit(author.ID, CreateCommentRequest{
		MerchantID: merchant.ID, Rating: 1, Content: "Terrible service and cold food",
	})
	require.NoError(t, err)
	require.NoError(t, s.moderation.Reject(rejected.ID, admin.ID))

	_, err = s.likes.Toggle(first.ID, likerA.ID)
	require.NoError(t, err)
	_, err = s.likes.Toggle(first.ID, likerB.ID)
	require.NoError(t, err)
	_, err = s.likes.Toggle(second.ID, likerA.ID)
	require.NoError(t, err)
	// Unlike one again.
	_, err = s.likes.Toggle(second.ID, likerA.ID)
	require.NoError(t, err)

	require.NoError(t, s.moderation.Delete(second.ID, admin.ID))

	incremental, err := s.ledger.GetStats(author.ID)
	require.NoError(t, err)

	recomputed, err := s.ledger.Recompute(author.ID)
	require.NoError(t, err)

	require.Equal(t, incremental.TotalPoints, recomputed.TotalPoints)
	require.Equal(t, incremental.TotalComments, recomputed.TotalComments)
	require.Equal(t, incremental.TotalLikesReceived, recomputed.TotalLikesReceived)
}

func TestRecomputeIncludesAchievementPoints(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)
	merchant := createMerchant(t, s.db, admin.ID, "Corner Cafe")
	author := createUser(t, s.db, "author@test.local", models.RoleCustomer)

	for i := 0; i < 5; i++ {
		submitAndApprove(t, s, merchant.ID, author.ID, admin.ID)
	}

	incremental, err := s.ledger.GetStats(author.ID)
	require.NoError(t, err)
	require.Equal(t, 70, incremental.TotalPoints) // 5 x 10 + 20 achievement

	recomputed, err := s.ledger.Recompute(author.ID)
	require.NoError(t, err)
	require.Equal(t, 70, recomputed.TotalPoints)
	require.Equal(t, 5, recomputed.TotalComments)
}

func TestGetStatsForUnknownUserIsZero(t *testing.T) {
	s := setupServices(t)

	stats, err := s.ledger.GetStats(42)
	require.NoError(t, err)
	require.Zero(t, stats.TotalPoints)
	require.Zero(t, stats.TotalComments)
	require.Zero(t, stats.TotalLikesReceived)
}

func TestDebitClampsAndWarns(t *testing.T) {
	s := setupServices(t)
	author := createUser(t, s.db, "author@test.local", models.RoleCustomer)

	require.NoError(t, s.db.Transaction(func(tx *gorm.DB) error {
		return s.ledger.CreditTx(tx, author.ID, 7, 0, 0)
	}))
	require.NoError(t, s.db.Transaction(func(tx *gorm.DB) error {
		return s.ledger.DebitTx(tx, author.ID, 25, 0, 0)
	}))

	stats, err := s.ledger.GetStats(author.ID)
	require.NoError(t, err)
	require.Zero(t, stats.TotalPoints)
}

// A debit whose point total is unchanged by a concurrent writer must still
// notice that the counters moved underneath it. The update callback slips a
// competing counter decrement in between the read and the guarded write.
func TestDebitRetriesWhenCountersChangeUnderneath(t *testing.T) {
	s := setupServices(t)
	author := createUser(t, s.db, "author@test.local", models.RoleCustomer)

	require.NoError(t, s.db.Create(&models.ReputationStats{
		UserID:             author.ID,
		TotalPoints:        0,
		TotalComments:      2,
		TotalLikesReceived: 2,
	}).Error)

	fired := false
	require.NoError(t, s.db.Callback().Update().Before("gorm:update").Register("counter_interleave", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "reputation_stats" {
			return
		}
		fired = true
		tx.AddError(s.db.Exec(
			"UPDATE reputation_stats SET total_comments = total_comments - 1 WHERE user_id = ?",
			author.ID,
		).Error)
	}))

	require.NoError(t, s.ledger.DebitTx(s.db, author.ID, 10, 1, 1))
	require.True(t, fired)

	stats, err := s.ledger.GetStats(author.ID)
	require.NoError(t, err)
	require.Zero(t, stats.TotalPoints)
	require.Zero(t, stats.TotalComments)
	require.Equal(t, 1, stats.TotalLikesReceived)
}
