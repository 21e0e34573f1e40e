package services_test

import (
	"errors"
	"testing"

	"bookswap/internal/models"
	"bookswap/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookRepo is a mock implementation of repositories.BookRepository
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) GetAll(availableOnly bool) ([]models.Book, error) {
	args := m.Called(availableOnly)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepo) GetByID(id string) (*models.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepo) GetByOwner(ownerID string) ([]models.Book, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepo) Create(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepo) Update(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockRequestRepo is a mock implementation of repositories.RequestRepository
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) GetByID(id string) (*models.Request, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepo) Create(request *models.Request) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockRequestRepo) GetByOwner(ownerID string) ([]models.Request, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestRepo) GetByRequester(requesterID string) ([]models.Request, error) {
	args := m.Called(requesterID)
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestRepo) FindActive(bookID, requesterID string) (*models.Request, error) {
	args := m.Called(bookID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepo) UpdateStatus(id, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockRequestRepo) Accept(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRequestRepo) DeleteByBook(bookID string) error {
	args := m.Called(bookID)
	return args.Error(0)
}

func TestBookService_CreateBook(t *testing.T) {
	mockBooks := new(MockBookRepo)
	mockRequests := new(MockRequestRepo)
	service := services.NewBookService(mockBooks, mockRequests, nil)

	mockBooks.On("Create", mock.AnythingOfType("*models.Book")).Return(nil).Run(func(args mock.Arguments) {
		book := args.Get(0).(*models.Book)
		book.ID = "book-1"
	}).Once()
	mockBooks.On("GetByID", "book-1").Return(&models.Book{
		ID:        "book-1",
		Title:     "Dune",
		Author:    "Herbert",
		Condition: models.ConditionGood,
		OwnerID:   "user-1",
		Available: true,
	}, nil).Once()

	created, err := service.CreateBook("user-1", &models.Book{Title: "Dune", Author: "Herbert", Condition: models.ConditionGood})
	assert.NoError(t, err)
	assert.True(t, created.Available)
	assert.Equal(t, "user-1", created.OwnerID)
	mockBooks.AssertExpectations(t)
}

func TestBookService_CreateBook_DefaultCondition(t *testing.T) {
	mockBooks := new(MockBookRepo)
	mockRequests := new(MockRequestRepo)
	service := services.NewBookService(mockBooks, mockRequests, nil)

	mockBooks.On("Create", mock.MatchedBy(func(b *models.Book) bool {
		return b.Condition == models.ConditionGood
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Book).ID = "book-1"
	}).Once()
	mockBooks.On("GetByID", "book-1").Return(&models.Book{ID: "book-1", Available: true}, nil).Once()

	_, err := service.CreateBook("user-1", &models.Book{Title: "Dune", Author: "Herbert"})
	assert.NoError(t, err)
	mockBooks.AssertExpectations(t)
}

func TestBookService_UpdateBook(t *testing.T) {
	mockBooks := new(MockBookRepo)
	mockRequests := new(MockRequestRepo)
	service := services.NewBookService(mockBooks, mockRequests, nil)

	existing := &models.Book{
		ID:        "book-1",
		Title:     "Dune",
		Author:    "Herbert",
		Condition: models.ConditionGood,
		OwnerID:   "user-1",
		Available: true,
	}

	// Only the owner may edit.
	mockBooks.On("GetByID", "book-1").Return(existing, nil).Once()
	newTitle := "Dune Messiah"
	_, err := service.UpdateBook("book-1", "user-2", models.BookPatch{Title: &newTitle})
	assert.True(t, errors.Is(err, services.ErrForbidden))
	mockBooks.AssertExpectations(t)

	// A patch only touches the fields it carries.
	mockBooks.On("GetByID", "book-1").Return(existing, nil).Once()
	mockBooks.On("Update", mock.MatchedBy(func(b *models.Book) bool {
		return b.Title == "Dune Messiah" && b.Author == "Herbert" && b.Available
	})).Return(nil).Once()
	mockBooks.On("GetByID", "book-1").Return(&models.Book{
		ID: "book-1", Title: "Dune Messiah", Author: "Herbert", OwnerID: "user-1", Available: true,
	}, nil).Once()

	updated, err := service.UpdateBook("book-1", "user-1", models.BookPatch{Title: &newTitle})
	assert.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	mockBooks.AssertExpectations(t)
}

func TestBookService_DeleteBook(t *testing.T) {
	mockBooks := new(MockBookRepo)
	mockRequests := new(MockRequestRepo)
	service := services.NewBookService(mockBooks, mockRequests, nil)

	book := &models.Book{ID: "book-1", OwnerID: "user-1"}

	// Non-owner is rejected and nothing is deleted.
	mockBooks.On("GetByID", "book-1").Return(book, nil).Once()
	err := service.DeleteBook("book-1", "user-2")
	assert.True(t, errors.Is(err, services.ErrForbidden))
	mockRequests.AssertNotCalled(t, "DeleteByBook", mock.Anything)
	mockBooks.AssertNotCalled(t, "Delete", mock.Anything)

	// Owner delete cascades: requests first, then the book.
	mockBooks.On("GetByID", "book-1").Return(book, nil).Once()
	mockRequests.On("DeleteByBook", "book-1").Return(nil).Once()
	mockBooks.On("Delete", "book-1").Return(nil).Once()

	err = service.DeleteBook("book-1", "user-1")
	assert.NoError(t, err)
	mockBooks.AssertExpectations(t)
	mockRequests.AssertExpectations(t)
}
