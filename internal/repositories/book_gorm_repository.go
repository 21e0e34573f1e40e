package repositories

import (
	"errors"
	"fmt"

	"bookswap/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// GetAll retrieves all books, newest first, optionally filtered to those
// still available for swapping.
func (r *GORMBookRepository) GetAll(availableOnly bool) ([]models.Book, error) {
	var books []models.Book
	q := r.db.Preload("Owner").Order("created_at DESC")
	if availableOnly {
		q = q.Where("available = ?", true)
	}
	if err := q.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get all books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a single book by its ID with the owner attached.
func (r *GORMBookRepository) GetByID(id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.Preload("Owner").First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// GetByOwner retrieves all books owned by ownerID, newest first.
func (r *GORMBookRepository) GetByOwner(ownerID string) ([]models.Book, error) {
	var books []models.Book
	err := r.db.Preload("Owner").Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get books for owner %s: %w", ownerID, err)
	}
	return books, nil
}

// Create creates a new book in the database.
func (r *GORMBookRepository) Create(book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update saves all fields of an existing book, including zero values such
// as available=false.
func (r *GORMBookRepository) Update(book *models.Book) error {
	res := r.db.Omit("Owner").Save(book)
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s: %w", book.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a book by its ID.
func (r *GORMBookRepository) Delete(id string) error {
	res := r.db.Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
