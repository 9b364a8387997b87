package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shopapp/internal/domain"
)

// ShopListPlan enumerates the closed set of physical query plans a shop
// listing can resolve to. Exactly one plan applies per request.
type ShopListPlan int

const (
	ShopListDefault ShopListPlan = iota // id ascending
	ShopListSortByName
	ShopListSortByCreatedAt
	ShopListSortByProductCount
	ShopListFilterVacations
	ShopListFilterCreatedBefore
	ShopListFilterCreatedAfter
	ShopListFilterCreatedBetween
	ShopListFilterVacationsCreatedBefore
	ShopListFilterVacationsCreatedAfter
	ShopListFilterVacationsCreatedBetween
)

// ShopListQuery carries the resolved plan and the parameters it binds.
// Single date bounds and the vacation+range combination are exclusive
// (< and >); the plain range is BETWEEN, so its bounds are inclusive.
type ShopListQuery struct {
	Plan          ShopListPlan
	InVacations   bool
	CreatedBefore time.Time
	CreatedAfter  time.Time
}

// ShopRepository defines the interface for shop data access.
type ShopRepository interface {
	// Save inserts or fully overwrites a shop and its opening hours, then
	// reads the row back inside the same transaction so store-computed
	// counts are populated on the returned value.
	Save(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
	FindByID(ctx context.Context, id int64) (*domain.Shop, error)
	// Delete detaches every owned product before removing the shop row.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, query ShopListQuery, page, pageSize int) ([]*domain.Shop, int, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// nb_products and nb_categories are derived aggregates; they exist only in
// this projection and are never written.
const shopSelect = `
	SELECT s.id, s.name, s.created_at, s.in_vacations,
	       (SELECT COUNT(*) FROM products p WHERE p.shop_id = s.id) AS nb_products,
	       (SELECT COUNT(DISTINCT pc.category_id) FROM products_categories pc
	        WHERE pc.product_id IN (SELECT p.id FROM products p WHERE p.shop_id = s.id)) AS nb_categories
	FROM shops s
`

type shopRepository struct {
	db *sql.DB
}

// NewShopRepository creates a new instance of ShopRepository
func NewShopRepository(db *sql.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Save(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "begin shop save", Err: err}
	}
	defer tx.Rollback()

	id := shop.ID
	if id == 0 {
		err = tx.QueryRowContext(
			ctx,
			`INSERT INTO shops (name, in_vacations) VALUES ($1, $2) RETURNING id`,
			shop.Name,
			shop.InVacations,
		).Scan(&id)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "insert shop", Err: err}
		}
	} else {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE shops SET name = $2, in_vacations = $3 WHERE id = $1`,
			id,
			shop.Name,
			shop.InVacations,
		)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "update shop", Err: err}
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, &domain.PersistenceError{Op: "update shop", Err: err}
		}
		if rowsAffected == 0 {
			return nil, &domain.NotFoundError{Resource: "shop", ID: id}
		}

		// Full replace, not a merge: existing slots are dropped.
		if _, err := tx.ExecContext(ctx, `DELETE FROM opening_hours WHERE shop_id = $1`, id); err != nil {
			return nil, &domain.PersistenceError{Op: "clear opening hours", Err: err}
		}
	}

	for _, hours := range shop.OpeningHours {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO opening_hours (shop_id, day, open_at, close_at) VALUES ($1, $2, $3::time, $4::time)`,
			id,
			hours.Day,
			hours.OpenAt,
			hours.CloseAt,
		)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "insert opening hours", Err: err}
		}
	}

	// Read back inside the same transaction so the derived counts on the
	// returned shop reflect this write.
	saved, err := scanShopRow(tx.QueryRowContext(ctx, shopSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "shop", ID: id}
		}
		return nil, &domain.PersistenceError{Op: "reload shop", Err: err}
	}

	saved.OpeningHours, err = fetchOpeningHours(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &domain.PersistenceError{Op: "commit shop save", Err: err}
	}

	return saved, nil
}

func (r *shopRepository) FindByID(ctx context.Context, id int64) (*domain.Shop, error) {
	shop, err := scanShopRow(r.db.QueryRowContext(ctx, shopSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "shop", ID: id}
		}
		return nil, &domain.PersistenceError{Op: "find shop by id", Err: err}
	}

	shop.OpeningHours, err = fetchOpeningHours(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	shop.Products, err = fetchShopProducts(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	return shop, nil
}

func (r *shopRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin shop delete", Err: err}
	}
	defer tx.Rollback()

	// Owned products are detached, never deleted.
	if _, err := tx.ExecContext(ctx, `UPDATE products SET shop_id = NULL WHERE shop_id = $1`, id); err != nil {
		return &domain.PersistenceError{Op: "detach products", Err: err}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return &domain.PersistenceError{Op: "delete shop", Err: err}
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "delete shop", Err: err}
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: "shop", ID: id}
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit shop delete", Err: err}
	}
	return nil
}

func (r *shopRepository) List(ctx context.Context, query ShopListQuery, page, pageSize int) ([]*domain.Shop, int, error) {
	whereClause := ""
	orderBy := "s.id ASC"
	args := []interface{}{}

	switch query.Plan {
	case ShopListSortByName:
		orderBy = "s.name ASC"
	case ShopListSortByCreatedAt:
		orderBy = "s.created_at ASC"
	case ShopListSortByProductCount:
		orderBy = "(SELECT COUNT(*) FROM products p WHERE p.shop_id = s.id) DESC"
	case ShopListFilterVacations:
		whereClause = "WHERE s.in_vacations = $1"
		args = append(args, query.InVacations)
	case ShopListFilterCreatedBefore:
		whereClause = "WHERE s.created_at < $1"
		args = append(args, query.CreatedBefore)
	case ShopListFilterCreatedAfter:
		whereClause = "WHERE s.created_at > $1"
		args = append(args, query.CreatedAfter)
	case ShopListFilterCreatedBetween:
		whereClause = "WHERE s.created_at BETWEEN $1 AND $2"
		args = append(args, query.CreatedAfter, query.CreatedBefore)
	case ShopListFilterVacationsCreatedBefore:
		whereClause = "WHERE s.in_vacations = $1 AND s.created_at < $2"
		args = append(args, query.InVacations, query.CreatedBefore)
	case ShopListFilterVacationsCreatedAfter:
		whereClause = "WHERE s.in_vacations = $1 AND s.created_at > $2"
		args = append(args, query.InVacations, query.CreatedAfter)
	case ShopListFilterVacationsCreatedBetween:
		whereClause = "WHERE s.in_vacations = $1 AND s.created_at > $2 AND s.created_at < $3"
		args = append(args, query.InVacations, query.CreatedAfter, query.CreatedBefore)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM shops s %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "count shops", Err: err}
	}

	offset := (page - 1) * pageSize
	listQuery := fmt.Sprintf("%s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		shopSelect, whereClause, orderBy, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "list shops", Err: err}
	}
	defer rows.Close()

	shops := []*domain.Shop{}
	for rows.Next() {
		shop, err := scanShopRow(rows)
		if err != nil {
			return nil, 0, &domain.PersistenceError{Op: "scan shop", Err: err}
		}
		shops = append(shops, shop)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "iterate shops", Err: err}
	}

	return shops, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShopRow(row rowScanner) (*domain.Shop, error) {
	shop := &domain.Shop{}
	err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.CreatedAt,
		&shop.InVacations,
		&shop.NbProducts,
		&shop.NbCategories,
	)
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func fetchOpeningHours(ctx context.Context, q querier, shopID int64) ([]domain.OpeningHours, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT id, day, to_char(open_at, 'HH24:MI'), to_char(close_at, 'HH24:MI')
		 FROM opening_hours WHERE shop_id = $1 ORDER BY day, open_at`,
		shopID,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "fetch opening hours", Err: err}
	}
	defer rows.Close()

	hours := []domain.OpeningHours{}
	for rows.Next() {
		var h domain.OpeningHours
		if err := rows.Scan(&h.ID, &h.Day, &h.OpenAt, &h.CloseAt); err != nil {
			return nil, &domain.PersistenceError{Op: "scan opening hours", Err: err}
		}
		hours = append(hours, h)
	}
	if err = rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterate opening hours", Err: err}
	}
	return hours, nil
}

func fetchShopProducts(ctx context.Context, q querier, shopID int64) ([]*domain.Product, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT id, price, shop_id FROM products WHERE shop_id = $1 ORDER BY id`,
		shopID,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "fetch shop products", Err: err}
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		if err := rows.Scan(&product.ID, &product.Price, &product.ShopID); err != nil {
			return nil, &domain.PersistenceError{Op: "scan shop product", Err: err}
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterate shop products", Err: err}
	}
	return products, nil
}
