package services

import (
	"fmt"

	"bookswap/internal/models"
	"bookswap/internal/repositories"
	"bookswap/pkg/rabbitmq"
)

// BookService handles business logic for the book catalog.
type BookService struct {
	bookRepo    repositories.BookRepository
	requestRepo repositories.RequestRepository
	mqClient    *rabbitmq.Client
}

// NewBookService creates a new BookService. The request repository is needed
// because deleting a book cascades to its requests.
func NewBookService(bookRepo repositories.BookRepository, requestRepo repositories.RequestRepository, mqClient *rabbitmq.Client) *BookService {
	return &BookService{
		bookRepo:    bookRepo,
		requestRepo: requestRepo,
		mqClient:    mqClient,
	}
}

// ListBooks retrieves all books, optionally only those still available.
func (s *BookService) ListBooks(availableOnly bool) ([]models.Book, error) {
	return s.bookRepo.GetAll(availableOnly)
}

// GetBook retrieves a single book by its ID.
func (s *BookService) GetBook(id string) (*models.Book, error) {
	return s.bookRepo.GetByID(id)
}

// CreateBook stores a new listing owned by ownerID. New listings are always
// available.
func (s *BookService) CreateBook(ownerID string, book *models.Book) (*models.Book, error) {
	book.OwnerID = ownerID
	book.Available = true
	if book.Condition == "" {
		book.Condition = models.ConditionGood
	}
	if err := s.bookRepo.Create(book); err != nil {
		return nil, err
	}

	created, err := s.bookRepo.GetByID(book.ID)
	if err != nil {
		return nil, err
	}

	publishEvent(s.mqClient, EventBookCreated, map[string]interface{}{
		"book_id":  created.ID,
		"owner_id": created.OwnerID,
		"title":    created.Title,
	})
	return created, nil
}

// MyBooks retrieves all books owned by ownerID, newest first.
func (s *BookService) MyBooks(ownerID string) ([]models.Book, error) {
	return s.bookRepo.GetByOwner(ownerID)
}

// UpdateBook applies a partial update to a book. Only the owner may edit.
func (s *BookService) UpdateBook(id, actorID string, patch models.BookPatch) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != actorID {
		return nil, fmt.Errorf("not authorized to update this book: %w", ErrForbidden)
	}

	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Condition != nil {
		book.Condition = *patch.Condition
	}
	if patch.Description != nil {
		book.Description = *patch.Description
	}
	if patch.Image != nil {
		book.Image = *patch.Image
	}
	if patch.Available != nil {
		book.Available = *patch.Available
	}

	if err := s.bookRepo.Update(book); err != nil {
		return nil, err
	}
	return s.bookRepo.GetByID(id)
}

// DeleteBook removes a listing and every request referencing it. Only the
// owner may delete.
func (s *BookService) DeleteBook(id, actorID string) error {
	book, err := s.bookRepo.GetByID(id)
	if err != nil {
		return err
	}
	if book.OwnerID != actorID {
		return fmt.Errorf("not authorized to delete this book: %w", ErrForbidden)
	}

	// Requests go first so no request is left pointing at a deleted book.
	if err := s.requestRepo.DeleteByBook(id); err != nil {
		return err
	}
	if err := s.bookRepo.Delete(id); err != nil {
		return err
	}

	publishEvent(s.mqClient, EventBookDeleted, map[string]interface{}{
		"book_id":  id,
		"owner_id": actorID,
	})
	return nil
}
