package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"shopapp/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestProductFindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	shopID := int64(7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, price, shop_id FROM products WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "shop_id"}).
			AddRow(int64(3), "12.50", shopID))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, locale, name, description FROM localized_products`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "locale", "name", "description"}).
			AddRow(int64(1), "en", "Espresso beans", "Dark roast").
			AddRow(int64(2), "fr", "Grains espresso", ""))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT c.id, c.name FROM categories c`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(9), "coffee"))

	repo := NewProductRepository(db)
	product, err := repo.FindByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if !product.Price.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("price = %s, want 12.50", product.Price)
	}
	if product.ShopID == nil || *product.ShopID != shopID {
		t.Errorf("shop id = %v, want %d", product.ShopID, shopID)
	}
	if len(product.LocalizedProducts) != 2 {
		t.Errorf("localized products = %d, want 2", len(product.LocalizedProducts))
	}
	if len(product.Categories) != 1 || product.Categories[0].Name != "coffee" {
		t.Errorf("unexpected categories %+v", product.Categories)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProductFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, price, shop_id FROM products WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "shop_id"}))

	repo := NewProductRepository(db)
	_, err = repo.FindByID(context.Background(), 404)

	var notFoundErr *domain.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFoundErr.Resource != "product" || notFoundErr.ID != 404 {
		t.Errorf("unexpected not found error %+v", notFoundErr)
	}
}

func TestProductDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewProductRepository(db)
	err = repo.Delete(context.Background(), 404)

	var notFoundErr *domain.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestProductDeleteWrapsStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	cause := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnError(cause)

	repo := NewProductRepository(db)
	err = repo.Delete(context.Background(), 1)

	var persistenceErr *domain.PersistenceError
	if !errors.As(err, &persistenceErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected the original cause to be preserved")
	}
}

func TestProductListByShopAndCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p\s+WHERE p\.shop_id = \$1\s+AND p\.id IN`).
		WithArgs(int64(5), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT p\.id, p\.price, p\.shop_id FROM products p\s+WHERE p\.shop_id = \$1\s+AND p\.id IN`).
		WithArgs(int64(5), int64(2), 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "shop_id"}).
			AddRow(int64(11), "4.20", int64(5)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, locale, name, description FROM localized_products`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "locale", "name", "description"}).
			AddRow(int64(1), "en", "Butter croissant", ""))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT c.id, c.name FROM categories c`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(2), "pastry"))

	repo := NewProductRepository(db)
	products, total, err := repo.ListByShopAndCategory(context.Background(), 5, 2, 1, 20)
	if err != nil {
		t.Fatalf("ListByShopAndCategory failed: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("got %d products, total %d, want 1 and 1", len(products), total)
	}
	if products[0].ID != 11 {
		t.Errorf("product id = %d, want 11", products[0].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
