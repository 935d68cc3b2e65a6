package models

import (
	"time"
)

// Comment bodies shorter than this are rejected on submission.
const MinCommentLength = 10

type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MerchantID uint      `json:"merchant_id" gorm:"not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Rating     int       `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Content    string    `json:"content" gorm:"not null"`
	IsApproved bool      `json:"is_approved" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	User     User          `json:"user,omitempty"`
	Merchant Merchant      `json:"merchant,omitempty"`
	Likes    []CommentLike `json:"likes,omitempty"`
}

// CommentLike is a pure join row: its presence is the like. At most one
// row may exist per (comment, user) pair.
type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_likes_comment_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_likes_comment_user"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User    User    `json:"user,omitempty"`
	Comment Comment `json:"comment,omitempty"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
