package repository

import (
	"context"
	"database/sql"
	"errors"

	"shopapp/internal/domain"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]*domain.Product, int, error)
	ListByShopAndCategory(ctx context.Context, shopID, categoryID int64, page, pageSize int) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a product together with its localized texts and category
// links in one transaction, then reads it back before committing.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "begin product create", Err: err}
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(
		ctx,
		`INSERT INTO products (price, shop_id) VALUES ($1, $2) RETURNING id`,
		product.Price,
		product.ShopID,
	).Scan(&id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "insert product", Err: err}
	}

	if err := insertProductRelations(ctx, tx, id, product); err != nil {
		return nil, err
	}

	saved, err := readProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &domain.PersistenceError{Op: "commit product create", Err: err}
	}
	return saved, nil
}

// Update fully overwrites the product row, its localized texts, and its
// category links.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "begin product update", Err: err}
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE products SET price = $2, shop_id = $3 WHERE id = $1`,
		product.ID,
		product.Price,
		product.ShopID,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "update product", Err: err}
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "update product", Err: err}
	}
	if rowsAffected == 0 {
		return nil, &domain.NotFoundError{Resource: "product", ID: product.ID}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM localized_products WHERE product_id = $1`, product.ID); err != nil {
		return nil, &domain.PersistenceError{Op: "clear localized products", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products_categories WHERE product_id = $1`, product.ID); err != nil {
		return nil, &domain.PersistenceError{Op: "clear product categories", Err: err}
	}

	if err := insertProductRelations(ctx, tx, product.ID, product); err != nil {
		return nil, err
	}

	saved, err := readProduct(ctx, tx, product.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &domain.PersistenceError{Op: "commit product update", Err: err}
	}
	return saved, nil
}

// Delete removes a product; localized texts and category links go with it.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return &domain.PersistenceError{Op: "delete product", Err: err}
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "delete product", Err: err}
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: "product", ID: id}
	}
	return nil
}

// FindByID retrieves a product with its localized texts and categories.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return readProduct(ctx, r.db, id)
}

// ListByShop retrieves a page of the products owned by one shop.
func (r *productRepository) ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]*domain.Product, int, error) {
	countQuery := `SELECT COUNT(*) FROM products WHERE shop_id = $1`
	listQuery := `
		SELECT id, price, shop_id FROM products
		WHERE shop_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`
	return r.listProducts(ctx, countQuery, listQuery, []interface{}{shopID}, page, pageSize)
}

// ListByShopAndCategory retrieves the intersection of a shop's products and a
// category's members through the join table.
func (r *productRepository) ListByShopAndCategory(ctx context.Context, shopID, categoryID int64, page, pageSize int) ([]*domain.Product, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM products p
		WHERE p.shop_id = $1
		  AND p.id IN (SELECT pc.product_id FROM products_categories pc WHERE pc.category_id = $2)
	`
	listQuery := `
		SELECT p.id, p.price, p.shop_id FROM products p
		WHERE p.shop_id = $1
		  AND p.id IN (SELECT pc.product_id FROM products_categories pc WHERE pc.category_id = $2)
		ORDER BY p.id ASC
		LIMIT $3 OFFSET $4
	`
	return r.listProducts(ctx, countQuery, listQuery, []interface{}{shopID, categoryID}, page, pageSize)
}

func (r *productRepository) listProducts(ctx context.Context, countQuery, listQuery string, args []interface{}, page, pageSize int) ([]*domain.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "count products", Err: err}
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "list products", Err: err}
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		if err := rows.Scan(&product.ID, &product.Price, &product.ShopID); err != nil {
			return nil, 0, &domain.PersistenceError{Op: "scan product", Err: err}
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "iterate products", Err: err}
	}

	for _, product := range products {
		if product.LocalizedProducts, err = fetchLocalizedProducts(ctx, r.db, product.ID); err != nil {
			return nil, 0, err
		}
		if product.Categories, err = fetchProductCategories(ctx, r.db, product.ID); err != nil {
			return nil, 0, err
		}
	}

	return products, total, nil
}

func insertProductRelations(ctx context.Context, tx *sql.Tx, id int64, product *domain.Product) error {
	for _, lp := range product.LocalizedProducts {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO localized_products (product_id, locale, name, description) VALUES ($1, $2, $3, $4)`,
			id,
			lp.Locale,
			lp.Name,
			lp.Description,
		)
		if err != nil {
			return &domain.PersistenceError{Op: "insert localized product", Err: err}
		}
	}

	for _, category := range product.Categories {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO products_categories (product_id, category_id) VALUES ($1, $2)`,
			id,
			category.ID,
		)
		if err != nil {
			return &domain.PersistenceError{Op: "link product category", Err: err}
		}
	}
	return nil
}

func readProduct(ctx context.Context, q querier, id int64) (*domain.Product, error) {
	product := &domain.Product{}
	err := q.QueryRowContext(
		ctx,
		`SELECT id, price, shop_id FROM products WHERE id = $1`,
		id,
	).Scan(&product.ID, &product.Price, &product.ShopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "product", ID: id}
		}
		return nil, &domain.PersistenceError{Op: "find product by id", Err: err}
	}

	if product.LocalizedProducts, err = fetchLocalizedProducts(ctx, q, id); err != nil {
		return nil, err
	}
	if product.Categories, err = fetchProductCategories(ctx, q, id); err != nil {
		return nil, err
	}
	return product, nil
}

func fetchLocalizedProducts(ctx context.Context, q querier, productID int64) ([]domain.LocalizedProduct, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT id, locale, name, description FROM localized_products WHERE product_id = $1 ORDER BY locale`,
		productID,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "fetch localized products", Err: err}
	}
	defer rows.Close()

	localized := []domain.LocalizedProduct{}
	for rows.Next() {
		var lp domain.LocalizedProduct
		if err := rows.Scan(&lp.ID, &lp.Locale, &lp.Name, &lp.Description); err != nil {
			return nil, &domain.PersistenceError{Op: "scan localized product", Err: err}
		}
		localized = append(localized, lp)
	}
	if err = rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterate localized products", Err: err}
	}
	return localized, nil
}

func fetchProductCategories(ctx context.Context, q querier, productID int64) ([]domain.Category, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT c.id, c.name FROM categories c
		 JOIN products_categories pc ON pc.category_id = c.id
		 WHERE pc.product_id = $1
		 ORDER BY c.name`,
		productID,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "fetch product categories", Err: err}
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, &domain.PersistenceError{Op: "scan category", Err: err}
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterate categories", Err: err}
	}
	return categories, nil
}
