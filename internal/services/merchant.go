package services

import (
	"errors"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"gorm.io/gorm"
)

type MerchantService struct {
	db     *gorm.DB
	audit  *AuditService
	ledger *ReputationService
}

func NewMerchantService(db *gorm.DB, audit *AuditService, ledger *ReputationService) *MerchantService {
	return &MerchantService{db: db, audit: audit, ledger: ledger}
}

type MerchantResponse struct {
	models.Merchant
	AverageRating float64 `json:"average_rating"`
	CommentCount  int     `json:"comment_count"`
}

// Create registers a new, unverified merchant owned by the caller. Only
// merchant-role users (or admins) may own merchants.
func (s *MerchantService) Create(ownerID uint, req models.CreateMerchantRequest) (*models.Merchant, error) {
	name := utils.SanitizeString(req.Name)
	if name == "" {
		return nil, validationError("merchant name is required")
	}

	var owner models.User
	if err := s.db.Where("id = ? AND is_active = ?", ownerID, true).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user %d not found", ownerID)
		}
		return nil, persistenceError("load owner", err)
	}
	if owner.Role != models.RoleMerchant && owner.Role != models.RoleAdmin {
		return nil, unauthorizedError("user %d cannot own merchants", ownerID)
	}

	merchant := models.Merchant{
		OwnerID:     ownerID,
		Name:        name,
		Description: utils.SanitizeString(req.Description),
		Category:    utils.SanitizeString(req.Category),
		Address:     utils.SanitizeString(req.Address),
		Phone:       utils.SanitizeString(req.Phone),
		IsVerified:  false,
		IsActive:    true,
	}
	if err := s.db.Create(&merchant).Error; err != nil {
		return nil, persistenceError("create merchant", err)
	}

	return &merchant, nil
}

// Update edits a merchant's business attributes. Only the owner or an admin
// may edit; the verification flag is never touched here.
func (s *MerchantService) Update(merchantID, callerID uint, req models.UpdateMerchantRequest) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := s.db.Where("id = ?", merchantID).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("merchant %d not found", merchantID)
		}
		return nil, persistenceError("load merchant", err)
	}

	var caller models.User
	if err := s.db.Where("id = ? AND is_active = ?", callerID, true).First(&caller).Error; err != nil {
		return nil, unauthorizedError("acting user %d not found", callerID)
	}
	if merchant.OwnerID != callerID && caller.Role != models.RoleAdmin {
		return nil, unauthorizedError("user %d does not own merchant %d", callerID, merchantID)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := utils.SanitizeString(*req.Name)
		if name == "" {
			return nil, validationError("merchant name is required")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}
	if req.Category != nil {
		updates["category"] = utils.SanitizeString(*req.Category)
	}
	if req.Address != nil {
		updates["address"] = utils.SanitizeString(*req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = utils.SanitizeString(*req.Phone)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&merchant).Updates(updates).Error; err != nil {
			return nil, persistenceError("update merchant", err)
		}
	}

	if err := s.db.First(&merchant, merchantID).Error; err != nil {
		return nil, persistenceError("reload merchant", err)
	}
	return &merchant, nil
}

// List returns active merchants with their public rating aggregates, optional
// category and name filters applied.
func (s *MerchantService) List(category, search string, page, limit int) ([]MerchantResponse, error) {
	query := s.db.Model(&models.Merchant{}).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var merchants []models.Merchant
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&merchants).Error
	if err != nil {
		return nil, persistenceError("list merchants", err)
	}

	return s.withRatings(merchants)
}

// Get returns one active merchant with its rating aggregates.
func (s *MerchantService) Get(merchantID uint) (*MerchantResponse, error) {
	var merchant models.Merchant
	err := s.db.Preload("Owner").
		Where("id = ? AND is_active = ?", merchantID, true).
		First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("merchant %d not found", merchantID)
		}
		return nil, persistenceError("load merchant", err)
	}

	responses, err := s.withRatings([]models.Merchant{merchant})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// OwnedBy returns every merchant owned by the given user, including inactive
// ones, for the owner's panel.
func (s *MerchantService) OwnedBy(ownerID uint) ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&merchants).Error
	if err != nil {
		return nil, persistenceError("list owned merchants", err)
	}
	return merchants, nil
}

// AllMerchants returns every merchant, verified or not, newest first, for
// the admin panel.
func (s *MerchantService) AllMerchants() ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := s.db.Preload("Owner").
		Order("created_at DESC, id DESC").
		Find(&merchants).Error
	if err != nil {
		return nil, persistenceError("list all merchants", err)
	}
	return merchants, nil
}

// UnverifiedMerchants returns the verification queue, oldest first.
func (s *MerchantService) UnverifiedMerchants() ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := s.db.Preload("Owner").
		Where("is_verified = ? AND is_active = ?", false, true).
		Order("created_at ASC, id ASC").
		Find(&merchants).Error
	if err != nil {
		return nil, persistenceError("list unverified merchants", err)
	}
	return merchants, nil
}

// Verify flips the public-trust flag. Verification is terminal and
// idempotent: re-verifying an already verified merchant succeeds without
// writing a duplicate audit row.
func (s *MerchantService) Verify(merchantID, adminID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}

		var merchant models.Merchant
		if err := tx.Where("id = ?", merchantID).First(&merchant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("merchant %d not found", merchantID)
			}
			return persistenceError("load merchant", err)
		}

		result := tx.Model(&models.Merchant{}).
			Where("id = ? AND is_verified = ?", merchantID, false).
			Update("is_verified", true)
		if result.Error != nil {
			return persistenceError("verify merchant", result.Error)
		}
		if result.RowsAffected == 0 {
			// Already verified; success without a duplicate audit entry.
			return nil
		}

		return s.audit.Record(tx, adminID, models.ActionVerifyMerchant, models.TargetMerchant, merchantID, map[string]interface{}{
			"name": merchant.Name,
		})
	})
}

// Delete removes a merchant and cascades over its comments. The credit for
// every approved comment swept up in the cascade is reversed so the ledger
// stays equal to what a recompute would derive.
func (s *MerchantService) Delete(merchantID, adminID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}

		var merchant models.Merchant
		if err := tx.Where("id = ?", merchantID).First(&merchant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("merchant %d not found", merchantID)
			}
			return persistenceError("load merchant", err)
		}

		var comments []models.Comment
		if err := tx.Where("merchant_id = ?", merchantID).Find(&comments).Error; err != nil {
			return persistenceError("list merchant comments", err)
		}
		for _, comment := range comments {
			if err := deleteCommentTx(tx, s.audit, s.ledger, comment.ID, adminID, models.ActionDeleteComment, false); err != nil {
				return err
			}
		}

		if err := tx.Where("id = ?", merchantID).Delete(&models.Merchant{}).Error; err != nil {
			return persistenceError("delete merchant", err)
		}

		return s.audit.Record(tx, adminID, models.ActionDeleteMerchant, models.TargetMerchant, merchantID, map[string]interface{}{
			"name":          merchant.Name,
			"owner_id":      merchant.OwnerID,
			"comment_count": len(comments),
		})
	})
}

func (s *MerchantService) withRatings(merchants []models.Merchant) ([]MerchantResponse, error) {
	responses := make([]MerchantResponse, 0, len(merchants))
	for _, merchant := range merchants {
		var result struct {
			Average float64
			Count   int64
		}
		err := s.db.Model(&models.Comment{}).
			Where("merchant_id = ? AND is_approved = ?", merchant.ID, true).
			Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
			Scan(&result).Error
		if err != nil {
			return nil, persistenceError("aggregate ratings", err)
		}
		responses = append(responses, MerchantResponse{
			Merchant:      merchant,
			AverageRating: result.Average,
			CommentCount:  int(result.Count),
		})
	}
	return responses, nil
}
