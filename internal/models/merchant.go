package models

import (
	"time"
)

type Merchant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	IsVerified  bool      `json:"is_verified" gorm:"default:false"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner    User      `json:"owner,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

// Request structs for API
type CreateMerchantRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

type UpdateMerchantRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
