package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
)

const bookColumns = "id, title, author, genre, description, cover, price, stock, status, created_at, updated_at"

type bookRepo struct {
	db querier
}

func scanBook(row pgx.Row) (domain.Book, error) {
	var b domain.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.Cover,
		&b.Price, &b.Stock, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return domain.Book{}, translateErr(err)
	}
	return b, nil
}

func collectBooks(rows pgx.Rows) ([]domain.Book, error) {
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (r bookRepo) Get(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	row := r.db.QueryRow(ctx, "SELECT "+bookColumns+" FROM book WHERE id = $1", id)
	return scanBook(row)
}

func (r bookRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	row := r.db.QueryRow(ctx, "SELECT "+bookColumns+" FROM book WHERE id = $1 FOR UPDATE", id)
	return scanBook(row)
}

func (r bookRepo) Save(ctx context.Context, b domain.Book) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO book (id, title, author, genre, description, cover, price, stock, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			genre = EXCLUDED.genre,
			description = EXCLUDED.description,
			cover = EXCLUDED.cover,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		b.ID, b.Title, b.Author, b.Genre, b.Description, b.Cover,
		b.Price, b.Stock, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}
	return nil
}

func (r bookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM book WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

func (r bookRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM book WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r bookRepo) ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM book WHERE LOWER(title) = LOWER($1) AND LOWER(author) = LOWER($2))",
		title, author,
	).Scan(&exists)
	return exists, err
}

func (r bookRepo) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.Query(ctx, "SELECT "+bookColumns+" FROM book ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r bookRepo) ListByStatus(ctx context.Context, status domain.BookStatus) ([]domain.Book, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+bookColumns+" FROM book WHERE status = $1 ORDER BY created_at, id", status)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r bookRepo) ListByGenre(ctx context.Context, genre string) ([]domain.Book, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+bookColumns+" FROM book WHERE LOWER(genre) = LOWER($1) ORDER BY created_at, id", genre)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r bookRepo) ListByAuthor(ctx context.Context, author string) ([]domain.Book, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+bookColumns+" FROM book WHERE author ILIKE '%' || $1 || '%' ORDER BY created_at, id", author)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

// sortColumns whitelists sortable fields; anything else falls back to title.
var sortColumns = map[string]string{
	"title":      "title",
	"author":     "author",
	"price":      "price",
	"createdAt":  "created_at",
	"created_at": "created_at",
}

func (r bookRepo) Search(ctx context.Context, filter domain.BookSearchFilter) (domain.BookSearchResult, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg(q)
		where = append(where, fmt.Sprintf("(title ILIKE '%%' || %s || '%%' OR author ILIKE '%%' || %s || '%%')", p, p))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}
	if filter.Genre != "" {
		where = append(where, "LOWER(genre) = LOWER("+arg(filter.Genre)+")")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM book"+clause, args...).Scan(&total); err != nil {
		return domain.BookSearchResult{}, err
	}

	col, ok := sortColumns[filter.SortField]
	if !ok {
		col = "title"
	}
	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}

	size := filter.Size
	if size <= 0 {
		size = 10
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	query := fmt.Sprintf(
		"SELECT %s FROM book%s ORDER BY %s %s, id LIMIT %s OFFSET %s",
		bookColumns, clause, col, dir, arg(size), arg(page*size),
	)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return domain.BookSearchResult{}, err
	}
	books, err := collectBooks(rows)
	if err != nil {
		return domain.BookSearchResult{}, err
	}

	return domain.BookSearchResult{
		Books:       books,
		CurrentPage: page,
		TotalItems:  total,
		TotalPages:  (total + size - 1) / size,
	}, nil
}

func (r bookRepo) Genres(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT genre FROM book WHERE genre <> '' ORDER BY genre")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
