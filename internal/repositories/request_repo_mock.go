package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bookswap/internal/models"

	"github.com/google/uuid"
)

// MockRequestRepository is an in-memory implementation of RequestRepository.
// It holds a reference to a MockBookRepository so the accept sequence can
// flip book availability the way the GORM transaction does.
type MockRequestRepository struct {
	requests map[string]models.Request
	books    *MockBookRepository
	mu       sync.RWMutex
}

// NewMockRequestRepository creates a new instance of MockRequestRepository.
func NewMockRequestRepository(books *MockBookRepository) *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]models.Request),
		books:    books,
	}
}

// GetByID returns a request by its ID.
func (r *MockRequestRepository) GetByID(id string) (*models.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("request with ID %s: %w", id, ErrNotFound)
	}
	return &request, nil
}

// Create adds a new request.
func (r *MockRequestRepository) Create(request *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.requests[request.ID] = *request
	return nil
}

// GetByOwner returns all requests received by ownerID, newest first.
func (r *MockRequestRepository) GetByOwner(ownerID string) ([]models.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requestList := make([]models.Request, 0)
	for _, req := range r.requests {
		if req.OwnerID == ownerID {
			requestList = append(requestList, req)
		}
	}
	sortRequestsNewestFirst(requestList)
	return requestList, nil
}

// GetByRequester returns all requests sent by requesterID, newest first.
func (r *MockRequestRepository) GetByRequester(requesterID string) ([]models.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requestList := make([]models.Request, 0)
	for _, req := range r.requests {
		if req.RequesterID == requesterID {
			requestList = append(requestList, req)
		}
	}
	sortRequestsNewestFirst(requestList)
	return requestList, nil
}

// FindActive looks up a pending or accepted request by requesterID on bookID.
func (r *MockRequestRepository) FindActive(bookID, requesterID string) (*models.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.BookID == bookID && req.RequesterID == requesterID &&
			(req.Status == models.StatusPending || req.Status == models.StatusAccepted) {
			found := req
			return &found, nil
		}
	}
	return nil, fmt.Errorf("active request for book %s by %s: %w", bookID, requesterID, ErrNotFound)
}

// UpdateStatus sets the status of a request.
func (r *MockRequestRepository) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("request with ID %s: %w", id, ErrNotFound)
	}
	request.Status = status
	request.UpdatedAt = time.Now()
	r.requests[id] = request
	return nil
}

// Accept mirrors the GORM accept sequence: accepted status, book flipped to
// unavailable, pending siblings declined. All request writes happen under one
// lock.
func (r *MockRequestRepository) Accept(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("request with ID %s: %w", id, ErrNotFound)
	}

	request.Status = models.StatusAccepted
	request.UpdatedAt = time.Now()
	r.requests[id] = request

	book, err := r.books.GetByID(request.BookID)
	if err != nil {
		return err
	}
	book.Available = false
	if err := r.books.Update(book); err != nil {
		return err
	}

	for rid, sibling := range r.requests {
		if rid == id || sibling.BookID != request.BookID || sibling.Status != models.StatusPending {
			continue
		}
		sibling.Status = models.StatusDeclined
		sibling.UpdatedAt = time.Now()
		r.requests[rid] = sibling
	}
	return nil
}

// DeleteByBook removes every request referencing bookID.
func (r *MockRequestRepository) DeleteByBook(bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, req := range r.requests {
		if req.BookID == bookID {
			delete(r.requests, id)
		}
	}
	return nil
}

func sortRequestsNewestFirst(requests []models.Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
