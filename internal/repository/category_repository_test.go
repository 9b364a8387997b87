package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"shopapp/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestCategoryCreateAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name) VALUES ($1) RETURNING id`)).
		WithArgs("bread").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	repo := NewCategoryRepository(db)
	category := &domain.Category{Name: "bread"}
	if err := repo.Create(context.Background(), category); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if category.ID != 1 {
		t.Errorf("id = %d, want 1", category.ID)
	}
}

func TestCategoryCreateDuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name) VALUES ($1) RETURNING id`)).
		WithArgs("bread").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewCategoryRepository(db)
	err = repo.Create(context.Background(), &domain.Category{Name: "bread"})
	if !errors.Is(err, ErrCategoryAlreadyExists) {
		t.Fatalf("expected ErrCategoryAlreadyExists, got %v", err)
	}
}

func TestCategoryFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM categories WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	repo := NewCategoryRepository(db)
	_, err = repo.FindByID(context.Background(), 404)

	var notFoundErr *domain.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
