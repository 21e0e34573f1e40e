package models

import "time"

// Book conditions accepted by the catalog.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// Book represents a listing offered for swapping.
type Book struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string    `json:"title" gorm:"type:varchar(255)" validate:"required,max=255"`
	Author      string    `json:"author" gorm:"type:varchar(255)" validate:"required,max=255"`
	Condition   string    `json:"condition" gorm:"type:varchar(16);default:good" validate:"required,oneof=excellent good fair poor"`
	Description string    `json:"description"`
	Image       string    `json:"image"` // opaque reference, typically an inline data URL from the client
	OwnerID     string    `json:"owner_id" gorm:"type:varchar(36);index"`
	Owner       *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Available   bool      `json:"available" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookPatch is a partial update to a book. Nil fields are left untouched,
// so callers can distinguish "not sent" from a zero value.
type BookPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Author      *string `json:"author" validate:"omitempty,min=1,max=255"`
	Condition   *string `json:"condition" validate:"omitempty,oneof=excellent good fair poor"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Available   *bool   `json:"available"`
}
