package models

import "time"

// Request statuses. A request starts pending and ends accepted or declined;
// both end states are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Request represents one user asking to swap for another user's book.
// OwnerID is a snapshot of the book's owner taken at creation time and is
// not re-synced afterwards.
type Request struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	BookID      string    `json:"book_id" gorm:"type:varchar(36);index"`
	Book        *Book     `json:"book,omitempty" gorm:"foreignKey:BookID"`
	RequesterID string    `json:"requester_id" gorm:"type:varchar(36);index"`
	Requester   *User     `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	OwnerID     string    `json:"owner_id" gorm:"type:varchar(36);index"`
	Owner       *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Status      string    `json:"status" gorm:"type:varchar(16);default:pending"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
