package services

import (
	"errors"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type CreateCommentRequest struct {
	MerchantID uint   `json:"merchant_id" binding:"required"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
}

type CommentResponse struct {
	ID         uint   `json:"id"`
	MerchantID uint   `json:"merchant_id"`
	UserID     uint   `json:"user_id"`
	UserName   string `json:"user_name"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
	LikeCount  int    `json:"like_count"`
	CreatedAt  string `json:"created_at"`
}

// Submit creates a comment in the pending state. It has no effect on the
// author's reputation until an admin approves it.
func (s *CommentService) Submit(userID uint, req CreateCommentRequest) (*models.Comment, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, validationError("rating must be between 1 and 5")
	}
	content := utils.SanitizeString(req.Content)
	if len(content) < models.MinCommentLength {
		return nil, validationError("comment must be at least %d characters", models.MinCommentLength)
	}

	var merchant models.Merchant
	if err := s.db.Where("id = ? AND is_active = ?", req.MerchantID, true).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("merchant %d not found", req.MerchantID)
		}
		return nil, persistenceError("load merchant", err)
	}

	comment := models.Comment{
		MerchantID: req.MerchantID,
		UserID:     userID,
		Rating:     req.Rating,
		Content:    content,
		IsApproved: false,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, persistenceError("create comment", err)
	}

	return &comment, nil
}

// MerchantComments returns the approved comments for a merchant, newest
// first, with maintained like counts.
func (s *CommentService) MerchantComments(merchantID uint, page, limit int) ([]CommentResponse, error) {
	var merchant models.Merchant
	if err := s.db.Where("id = ? AND is_active = ?", merchantID, true).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("merchant %d not found", merchantID)
		}
		return nil, persistenceError("load merchant", err)
	}

	var comments []models.Comment
	offset := (page - 1) * limit
	err := s.db.Preload("User").
		Where("merchant_id = ? AND is_approved = ?", merchantID, true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, persistenceError("list comments", err)
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		var likeCount int64
		if err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeCount).Error; err != nil {
			return nil, persistenceError("count likes", err)
		}

		userName := "Anonymous"
		if comment.User.ID != 0 {
			userName = comment.User.DisplayName
		}

		response = append(response, CommentResponse{
			ID:         comment.ID,
			MerchantID: comment.MerchantID,
			UserID:     comment.UserID,
			UserName:   userName,
			Rating:     comment.Rating,
			Content:    comment.Content,
			LikeCount:  int(likeCount),
			CreatedAt:  comment.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return response, nil
}

// AverageRating returns the mean rating over a merchant's approved comments,
// zero when there are none.
func (s *CommentService) AverageRating(merchantID uint) (float64, int, error) {
	var result struct {
		Average float64
		Count   int64
	}
	err := s.db.Model(&models.Comment{}).
		Where("merchant_id = ? AND is_approved = ?", merchantID, true).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		return 0, 0, persistenceError("average rating", err)
	}
	return result.Average, int(result.Count), nil
}
