package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-api/internal/model"
	"library-api/pkg/apierror"
)

type BookStore interface {
	FindByID(ctx context.Context, id string) (model.Book, error)
	Create(ctx context.Context, b model.Book) error
	Update(ctx context.Context, b model.Book) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
}

// CatalogService manages the book catalog.
type CatalogService struct {
	books BookStore
}

func NewCatalogService(books BookStore) *CatalogService {
	return &CatalogService{books: books}
}

func (s *CatalogService) CreateBook(ctx context.Context, req model.BookRequest, addedBy string) (model.Book, error) {
	if err := validateBookRequest(req); err != nil {
		return model.Book{}, err
	}

	book := bookFromRequest(req)
	book.ID = uuid.NewString()
	book.AddedAt = time.Now().UTC()
	if addedBy != "" {
		book.AddedBy = &addedBy
	}

	if err := s.books.Create(ctx, book); err != nil {
		return model.Book{}, err
	}

	return book, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (model.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *CatalogService) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, model.Meta, error) {
	filter.Skip, filter.Limit = clampPage(filter.Skip, filter.Limit, 100, 200)

	if filter.Status != "" {
		filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	}

	books, total, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, model.Meta{}, err
	}

	return books, model.Meta{Skip: filter.Skip, Limit: filter.Limit, Total: total}, nil
}

// UpdateBook replaces the mutable fields of a book while keeping its
// provenance (added_by, added_at) intact.
func (s *CatalogService) UpdateBook(ctx context.Context, id string, req model.BookRequest) (model.Book, error) {
	if err := validateBookRequest(req); err != nil {
		return model.Book{}, err
	}

	existing, err := s.books.FindByID(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	book := bookFromRequest(req)
	book.ID = existing.ID
	book.AddedBy = existing.AddedBy
	book.AddedAt = existing.AddedAt

	if err := s.books.Update(ctx, book); err != nil {
		return model.Book{}, err
	}

	return book, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}

func validateBookRequest(req model.BookRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apierror.BadRequest("title is required", "title")
	}
	if strings.TrimSpace(req.Author) == "" {
		return apierror.BadRequest("author is required", "author")
	}
	if req.CurrentStatus != nil {
		status := model.StoredBookStatus(strings.ToLower(strings.TrimSpace(*req.CurrentStatus)))
		switch status {
		case model.BookStatusAvailable, model.BookStatusBorrowed, model.BookStatusReserved, model.BookStatusLost:
		default:
			return apierror.New("BAD_REQUEST", "invalid book status", *req.CurrentStatus, http.StatusBadRequest)
		}
	}
	return nil
}

func bookFromRequest(req model.BookRequest) model.Book {
	status := model.BookStatusAvailable
	if req.CurrentStatus != nil {
		status = model.StoredBookStatus(strings.ToLower(strings.TrimSpace(*req.CurrentStatus)))
	}

	return model.Book{
		AccessionNumber: req.AccessionNumber,
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		Publisher:       req.Publisher,
		Edition:         req.Edition,
		ISBN:            req.ISBN,
		Genre:           req.Genre,
		Language:        req.Language,
		Pages:           req.Pages,
		Price:           req.Price,
		DateOfPurchase:  req.DateOfPurchase,
		PublishedDate:   req.PublishedDate,
		CurrentStatus:   status,
		ShelfNumber:     req.ShelfNumber,
	}
}

// clampPage bounds skip/limit query values: negative skip becomes zero and
// the limit falls back to def, capped at max.
func clampPage(skip int, limit int, def int, max int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return skip, limit
}
