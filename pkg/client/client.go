// Package client is a Go client for the book swap API. It keeps a local
// mirror of the caller's books and requests, updated from mutation
// responses, and notifies subscribers after specific mutation kinds so views
// know when to refetch.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"bookswap/internal/models"
)

// Mutation identifies which slice of state a mutation touched. Subscribers
// register per kind instead of watching one global refresh flag.
type Mutation string

const (
	MutationAuth     Mutation = "auth"
	MutationBooks    Mutation = "books"
	MutationRequests Mutation = "requests"
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Client calls the book swap API and mirrors responses into local state.
// Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.RWMutex
	token    string
	user     *models.User
	books    []models.Book
	myBooks  []models.Book
	received []models.Request
	sent     []models.Request

	subMu   sync.Mutex
	subs    map[Mutation]map[int]func()
	nextSub int
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		subs:       make(map[Mutation]map[int]func()),
	}
}

// Subscribe registers fn to run after every mutation of the given kind. The
// returned function unsubscribes.
func (c *Client) Subscribe(kind Mutation, fn func()) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if c.subs[kind] == nil {
		c.subs[kind] = make(map[int]func())
	}
	id := c.nextSub
	c.nextSub++
	c.subs[kind][id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs[kind], id)
	}
}

func (c *Client) notify(kinds ...Mutation) {
	c.subMu.Lock()
	var fns []func()
	for _, kind := range kinds {
		for _, fn := range c.subs[kind] {
			fns = append(fns, fn)
		}
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

// do performs one API call and decodes the envelope data into out (when out
// is non-nil). Failures come back as *APIError with the server's message.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

type authData struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and stores the returned token for subsequent
// calls.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	var data authData
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = data.Token
	c.user = data.User
	c.mu.Unlock()

	c.notify(MutationAuth)
	return data.User, nil
}

// Login authenticates and stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var data authData
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = data.Token
	c.user = data.User
	c.mu.Unlock()

	c.notify(MutationAuth)
	return data.User, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return &user, nil
}

// Books fetches the public catalog of available books and mirrors it.
func (c *Client) Books(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.books = books
	c.mu.Unlock()
	return books, nil
}

// Book fetches one book by id.
func (c *Client) Book(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := c.do(ctx, http.MethodGet, "/books/"+id, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBookParams are the fields for a new listing.
type CreateBookParams struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Condition   string `json:"condition,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// CreateBook adds a listing and prepends it to the mirrored my-books list.
func (c *Client) CreateBook(ctx context.Context, params CreateBookParams) (*models.Book, error) {
	var book models.Book
	if err := c.do(ctx, http.MethodPost, "/books", params, &book); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.myBooks = append([]models.Book{book}, c.myBooks...)
	c.mu.Unlock()

	c.notify(MutationBooks)
	return &book, nil
}

// MyBooks fetches the authenticated user's listings and mirrors them.
func (c *Client) MyBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/books/user/my-books", nil, &books); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.myBooks = books
	c.mu.Unlock()
	return books, nil
}

// UpdateBook applies a partial update and refreshes the mirrored copies.
func (c *Client) UpdateBook(ctx context.Context, id string, patch models.BookPatch) (*models.Book, error) {
	var book models.Book
	if err := c.do(ctx, http.MethodPut, "/books/"+id, patch, &book); err != nil {
		return nil, err
	}

	c.mu.Lock()
	replaceBook(c.books, book)
	replaceBook(c.myBooks, book)
	c.mu.Unlock()

	c.notify(MutationBooks)
	return &book, nil
}

// DeleteBook removes a listing and drops it from the mirrors, along with
// any mirrored requests that referenced it.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/books/"+id, nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.books = dropBook(c.books, id)
	c.myBooks = dropBook(c.myBooks, id)
	c.received = dropRequestsForBook(c.received, id)
	c.sent = dropRequestsForBook(c.sent, id)
	c.mu.Unlock()

	c.notify(MutationBooks, MutationRequests)
	return nil
}

// CreateRequest sends a swap request and prepends it to the mirrored sent
// list.
func (c *Client) CreateRequest(ctx context.Context, bookID, message string) (*models.Request, error) {
	var request models.Request
	err := c.do(ctx, http.MethodPost, "/requests", map[string]string{
		"bookId":  bookID,
		"message": message,
	}, &request)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sent = append([]models.Request{request}, c.sent...)
	c.mu.Unlock()

	c.notify(MutationRequests)
	return &request, nil
}

// ReceivedRequests fetches requests made on the caller's books.
func (c *Client) ReceivedRequests(ctx context.Context) ([]models.Request, error) {
	var requests []models.Request
	if err := c.do(ctx, http.MethodGet, "/requests/received", nil, &requests); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.received = requests
	c.mu.Unlock()
	return requests, nil
}

// SentRequests fetches requests the caller made.
func (c *Client) SentRequests(ctx context.Context) ([]models.Request, error) {
	var requests []models.Request
	if err := c.do(ctx, http.MethodGet, "/requests/sent", nil, &requests); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sent = requests
	c.mu.Unlock()
	return requests, nil
}

// UpdateRequestStatus accepts or declines a request. The single response
// carries both the resolved request and its book, so the mirror applies the
// book's new availability and the implied decline of competing pending
// requests without another fetch.
func (c *Client) UpdateRequestStatus(ctx context.Context, id, status string) (*models.Request, error) {
	var request models.Request
	err := c.do(ctx, http.MethodPut, "/requests/"+id+"/status", map[string]string{
		"status": status,
	}, &request)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.applyResolvedRequest(request)
	c.mu.Unlock()

	if request.Status == models.StatusAccepted {
		c.notify(MutationRequests, MutationBooks)
	} else {
		c.notify(MutationRequests)
	}
	return &request, nil
}

// applyResolvedRequest mirrors one resolved request into local state. Held
// under c.mu by the caller.
func (c *Client) applyResolvedRequest(request models.Request) {
	replaceRequest(c.received, request)
	replaceRequest(c.sent, request)

	if request.Status != models.StatusAccepted {
		return
	}

	if request.Book != nil {
		replaceBook(c.books, *request.Book)
		replaceBook(c.myBooks, *request.Book)
	}

	// Every other pending request on the same book was declined server-side
	// in the same transition.
	for i := range c.received {
		r := &c.received[i]
		if r.ID != request.ID && r.BookID == request.BookID && r.Status == models.StatusPending {
			r.Status = models.StatusDeclined
		}
	}
}

// --- Mirror access ---

// Token returns the bearer token stored after Register or Login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// CurrentUser returns the last known authenticated identity.
func (c *Client) CurrentUser() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// CachedBooks returns a copy of the mirrored public catalog.
func (c *Client) CachedBooks() []models.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Book(nil), c.books...)
}

// CachedMyBooks returns a copy of the mirrored own listings.
func (c *Client) CachedMyBooks() []models.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Book(nil), c.myBooks...)
}

// CachedReceived returns a copy of the mirrored received requests.
func (c *Client) CachedReceived() []models.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Request(nil), c.received...)
}

// CachedSent returns a copy of the mirrored sent requests.
func (c *Client) CachedSent() []models.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Request(nil), c.sent...)
}

func replaceBook(books []models.Book, book models.Book) {
	for i := range books {
		if books[i].ID == book.ID {
			books[i] = book
			return
		}
	}
}

func dropBook(books []models.Book, id string) []models.Book {
	kept := books[:0]
	for _, b := range books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	return kept
}

func replaceRequest(requests []models.Request, request models.Request) {
	for i := range requests {
		if requests[i].ID == request.ID {
			requests[i] = request
			return
		}
	}
}

func dropRequestsForBook(requests []models.Request, bookID string) []models.Request {
	kept := requests[:0]
	for _, r := range requests {
		if r.BookID != bookID {
			kept = append(kept, r)
		}
	}
	return kept
}
