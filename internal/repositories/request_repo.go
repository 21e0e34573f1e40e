package repositories

import "bookswap/internal/models"

// RequestRepository defines the interface for swap request data access.
// Listing methods return requests newest first with the book, requester and
// owner attached.
type RequestRepository interface {
	GetByID(id string) (*models.Request, error)
	Create(request *models.Request) error
	GetByOwner(ownerID string) ([]models.Request, error)
	GetByRequester(requesterID string) ([]models.Request, error)
	// FindActive looks up a pending or accepted request by the given
	// requester on the given book. Returns ErrNotFound when there is none.
	FindActive(bookID, requesterID string) (*models.Request, error)
	UpdateStatus(id, status string) error
	// Accept marks the request accepted, flips its book to unavailable and
	// declines every other pending request on the same book, as one unit.
	Accept(id string) error
	DeleteByBook(bookID string) error
}
