package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bookswap/internal/models"

	"github.com/google/uuid"
)

// MockBookRepository is an in-memory implementation of BookRepository.
type MockBookRepository struct {
	books map[string]models.Book
	mu    sync.RWMutex
}

// NewMockBookRepository creates a new instance of MockBookRepository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books: make(map[string]models.Book),
	}
}

// GetAll returns all books, newest first.
func (r *MockBookRepository) GetAll(availableOnly bool) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookList := make([]models.Book, 0, len(r.books))
	for _, b := range r.books {
		if availableOnly && !b.Available {
			continue
		}
		bookList = append(bookList, b)
	}
	sortBooksNewestFirst(bookList)
	return bookList, nil
}

// GetByID returns a book by its ID.
func (r *MockBookRepository) GetByID(id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return &book, nil
}

// GetByOwner returns all books owned by ownerID, newest first.
func (r *MockBookRepository) GetByOwner(ownerID string) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookList := make([]models.Book, 0)
	for _, b := range r.books {
		if b.OwnerID == ownerID {
			bookList = append(bookList, b)
		}
	}
	sortBooksNewestFirst(bookList)
	return bookList, nil
}

// Create adds a new book.
func (r *MockBookRepository) Create(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	r.books[book.ID] = *book
	return nil
}

// Update modifies an existing book.
func (r *MockBookRepository) Update(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.books[book.ID]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", book.ID, ErrNotFound)
	}
	book.UpdatedAt = time.Now()
	r.books[book.ID] = *book
	return nil
}

// Delete removes a book by its ID.
func (r *MockBookRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.books[id]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	delete(r.books, id)
	return nil
}

func sortBooksNewestFirst(books []models.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
}
