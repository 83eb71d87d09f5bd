package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/model"
	"library-api/pkg/apierror"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

const bookColumns = `id, accession_number, title, author, publisher, edition, isbn, genre,
	language, pages, price, date_of_purchase, published_date, current_status,
	shelf_number, added_by, added_at`

func scanBook(row pgx.Row) (model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.AccessionNumber, &b.Title, &b.Author, &b.Publisher,
		&b.Edition, &b.ISBN, &b.Genre, &b.Language, &b.Pages, &b.Price,
		&b.DateOfPurchase, &b.PublishedDate, &b.CurrentStatus, &b.ShelfNumber,
		&b.AddedBy, &b.AddedAt)
	return b, err
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (model.Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Book{}, apierror.NotFound("book not found", id)
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("find book by id: %w", err)
	}
	return b, nil
}

func (r *BookRepository) Create(ctx context.Context, b model.Book) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO books (id, accession_number, title, author, publisher, edition, isbn, genre,
		     language, pages, price, date_of_purchase, published_date, current_status,
		     shelf_number, added_by, added_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		b.ID, b.AccessionNumber, b.Title, b.Author, b.Publisher, b.Edition, b.ISBN, b.Genre,
		b.Language, b.Pages, b.Price, b.DateOfPurchase, b.PublishedDate, b.CurrentStatus,
		b.ShelfNumber, b.AddedBy, b.AddedAt)
	if isUniqueViolation(err) {
		return apierror.AlreadyExists("book with this ISBN already exists", stringOrEmpty(b.ISBN))
	}
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *BookRepository) Update(ctx context.Context, b model.Book) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET accession_number = $2, title = $3, author = $4, publisher = $5,
		     edition = $6, isbn = $7, genre = $8, language = $9, pages = $10, price = $11,
		     date_of_purchase = $12, published_date = $13, current_status = $14, shelf_number = $15
		 WHERE id = $1`,
		b.ID, b.AccessionNumber, b.Title, b.Author, b.Publisher, b.Edition, b.ISBN, b.Genre,
		b.Language, b.Pages, b.Price, b.DateOfPurchase, b.PublishedDate, b.CurrentStatus,
		b.ShelfNumber)
	if isUniqueViolation(err) {
		return apierror.AlreadyExists("book with this ISBN already exists", stringOrEmpty(b.ISBN))
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("book not found", b.ID)
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("book not found", id)
	}
	return nil
}

// List applies the optional title/author/status filters and returns a page of
// books plus the total matching count.
func (r *BookRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if title := strings.TrimSpace(filter.Title); title != "" {
		where = append(where, fmt.Sprintf("title ILIKE $%d", argIdx))
		args = append(args, "%"+title+"%")
		argIdx++
	}
	if author := strings.TrimSpace(filter.Author); author != "" {
		where = append(where, fmt.Sprintf("author ILIKE $%d", argIdx))
		args = append(args, "%"+author+"%")
		argIdx++
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		where = append(where, fmt.Sprintf("current_status = $%d", argIdx))
		args = append(args, model.StoredBookStatus(strings.ToLower(status)))
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM books %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT `+bookColumns+` FROM books %s ORDER BY title LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, total, rows.Err()
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
