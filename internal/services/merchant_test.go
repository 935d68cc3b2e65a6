package services

import (
	"testing"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCreateMerchantRequiresMerchantRole(t *testing.T) {
	s := setupServices(t)
	customer := createUser(t, s.db, "customer@test.local", models.RoleCustomer)
	owner := createUser(t, s.db, "owner@test.local", models.RoleMerchant)

	_, err := s.merchants.Create(customer.ID, models.CreateMerchantRequest{Name: "Corner Cafe"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.merchants.Create(owner.ID, models.CreateMerchantRequest{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)

	merchant, err := s.merchants.Create(owner.ID, models.CreateMerchantRequest{
		Name:     "Corner Cafe",
		Category: "cafe",
	})
	require.NoError(t, err)
	require.False(t, merchant.IsVerified)
	require.True(t, merchant.IsActive)
}

func TestVerifyMerchantIsIdempotent(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)
	owner := createUser(t, s.db, "owner@test.local", models.RoleMerchant)
	merchant := createMerchant(t, s.db, owner.ID, "Corner Cafe")

	require.NoError(t, s.merchants.Verify(merchant.ID, admin.ID))

	var reloaded models.Merchant
	require.NoError(t, s.db.First(&reloaded, merchant.ID).Error)
	require.True(t, reloaded.IsVerified)

	// A second verify succeeds without a duplicate audit row.
	require.NoError(t, s.merchants.Verify(merchant.ID, admin.ID))

	actions := auditActions(t, s.db)
	require.Len(t, actions, 1)
	require.Equal(t, models.ActionVerifyMerchant, actions[0].ActionType)

	// Non-admins cannot verify.
	err := s.merchants.Verify(merchant.ID, owner.ID)
	require.ErrorIs(t, err, ErrUnauthorized)

	err = s.merchants.Verify(9999, admin.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVerificationQueueOldestFirst(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)
	owner := createUser(t, s.db, "owner@test.local", models.RoleMerchant)

	first := createMerchant(t, s.db, owner.ID, "First Shop")
	second := createMerchant(t, s.db, owner.ID, "Second Shop")

	queue, err := s.merchants.UnverifiedMerchants()
	require.NoError(t, err)
	require.Len(t, queue, 2)
	require.Equal(t, first.ID, queue[0].ID)
	require.Equal(t, second.ID, queue[1].ID)

	require.NoError(t, s.merchants.Verify(first.ID, admin.ID))
	queue, err = s.merchants.UnverifiedMerchants()
	require.NoError(t, err)
	require.Len(t, queue, 1)
	require.Equal(t, second.ID, queue[0].ID)
}

// The admin panel lists every merchant, verified or not, newest first, with
// the owner attached.
func TestAllMerchantsIncludesUnverifiedNewestFirst(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)
	owner := createUser(t, s.db, "owner@test.local", models.RoleMerchant)

	first := createMerchant(t, s.db, owner.ID, "First Shop")
	second := createMerchant(t, s.db, owner.ID, "Second Shop")
	require.NoError(t, s.merchants.Verify(first.ID, admin.ID))

	all, err := s.merchants.AllMerchants()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID)
	require.False(t, all[0].IsVerified)
	require.Equal(t, first.ID, all[1].ID)
	require.True(t, all[1].IsVerified)
	require.Equal(t, owner.DisplayName, all[0].Owner.DisplayName)
}

func TestDeleteMerchantCascadesAndReverses(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)
	owner := createUser(t, s.db, "owner@test.local", models.RoleMerchant)
	merchant := createMerchant(t, s.db, owner.ID, "Corner Cafe")
	author := createUser(t, s.db, "author@test.local", models.RoleCustomer)
	liker := createUser(t, s.db, "liker@test.local", models.RoleCustomer)

	comment := submitAndApprove(t, s, merchant.ID, author.ID, admin.ID)
	_, err := s.likes.Toggle(comment.ID, liker.ID)
	require.NoError(t, err)

	require.NoError(t, s.merchants.Delete(merchant.ID, admin.ID))

	var commentCount, likeCount int64
	require.NoError(t, s.db.Model(&models.Comment{}).Where("merchant_id = ?", merchant.ID).Count(&commentCount).Error)
	require.NoError(t, s.db.Model(&models.CommentLike{}).Count(&likeCount).Error)
	require.Zero(t, commentCount)
	require.Zero(t, likeCount)

	// The author's credit went with the cascade, matching a recompute.
	stats, err := s.ledger.GetStats(author.ID)
	require.NoError(t, err)
	recomputed, err := s.ledger.Recompute(author.ID)
	require.NoError(t, err)
	require.Equal(t, recomputed.TotalPoints, stats.TotalPoints)
	require.Zero(t, stats.TotalPoints)

	actions := auditActions(t, s.db)
	require.Equal(t, models.ActionDeleteMerchant, actions[len(actions)-1].ActionType)
}

func TestMerchantRatingsAggregateApprovedOnly(t *testing.T) {
	s := setupServices(t)
	admin := createUser(t, s.db, "admin@test.local", models.RoleAdmin)
	owner := createUser(t, s.db, "owner@test.local", models.RoleMerchant)
	merchant := createMerchant(t, s.db, owner.ID, "Corner Cafe")
	author := createUser(t, s.db, "author@test.local", models.RoleCustomer)

	approved := submitAndApprove(t, s, merchant.ID, author.ID, admin.ID)
	_ = approved

	// A pending comment must not count toward the public average.
	_, err := s.comments.Submit(author.ID, CreateCommentRequest{
		MerchantID: merchant.ID, Rating: 1, Content: "Pending one that should not count",
	})
	require.NoError(t, err)

	response, err := s.merchants.Get(merchant.ID)
	require.NoError(t, err)
	require.Equal(t, 1, response.CommentCount)
	require.InDelta(t, 4.0, response.AverageRating, 0.001)

	listed, err := s.comments.MerchantComments(merchant.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}
