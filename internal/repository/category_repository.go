package repository

import (
	"context"
	"database/sql"
	"errors"

	"shopapp/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCategoryAlreadyExists reports a duplicate category name.
var ErrCategoryAlreadyExists = errors.New("category with this name already exists")

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category, filling in its generated id.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.db.QueryRowContext(
		ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`,
		category.Name,
	).Scan(&category.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCategoryAlreadyExists
		}
		return &domain.PersistenceError{Op: "insert category", Err: err}
	}
	return nil
}

// List retrieves all categories ordered by name.
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, &domain.PersistenceError{Op: "scan category", Err: err}
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterate categories", Err: err}
	}
	return categories, nil
}

// FindByID retrieves a category by id.
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "category", ID: id}
		}
		return nil, &domain.PersistenceError{Op: "find category by id", Err: err}
	}
	return category, nil
}
