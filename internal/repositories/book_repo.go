package repositories

import "bookswap/internal/models"

// BookRepository defines the interface for book listing data access.
// Listing methods return books newest first with the owner attached.
type BookRepository interface {
	GetAll(availableOnly bool) ([]models.Book, error)
	GetByID(id string) (*models.Book, error)
	GetByOwner(ownerID string) ([]models.Book, error)
	Create(book *models.Book) error
	Update(book *models.Book) error
	Delete(id string) error
}
