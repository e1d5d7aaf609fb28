package repository // repository defines data access for stored products

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"strings"      // strings for duplicate-key detection

	"github.com/iliyamo/warehouse-qr-system/internal/model"
)

const productColumns = `id, product_id, name, description, quantity, origin, destination,
	slot_id, photo, qr_code, added_by, date_added`

// ProductRepo provides methods to work with products in the database.
// Products never exist without a slot assignment, so the insert and
// delete methods are transactional variants meant to run in the same
// transaction as the matching slot occupancy change.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the given DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func scanProduct(row interface{ Scan(...interface{}) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.ProductID, &p.Name, &p.Description, &p.Quantity,
		&p.Origin, &p.Destination, &p.SlotID, &p.Photo, &p.QRCode, &p.AddedBy, &p.DateAdded)
	return p, err
}

// CreateTx inserts a product inside an existing transaction, paired
// with the TryOccupyTx that claimed its slot.  A duplicate product_id
// maps to ErrProductExists (MySQL error 1062); any failure rolls the
// whole transaction back, so the slot is never left occupied by a
// product that was not created.
func (r *ProductRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Product) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO products
		 (product_id, name, description, quantity, origin, destination, slot_id, photo, qr_code, added_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProductID, p.Name, p.Description, p.Quantity, p.Origin, p.Destination,
		p.SlotID, p.Photo, p.QRCode, p.AddedBy)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrProductExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetAll retrieves every product, newest first.
func (r *ProductRepo) GetAll(ctx context.Context) ([]model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY date_added DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByProductID retrieves a product by its caller-supplied id.
func (r *ProductRepo) GetByProductID(ctx context.Context, productID string) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Search finds the first product matching any combination of product
// id, case-insensitive name fragment and slot location.  This backs
// the QR-scan lookup, where the scanned payload may carry any of the
// three.  With no criteria at all the newest product wins, matching
// the original system's unfiltered findOne.
func (r *ProductRepo) Search(ctx context.Context, productID, name, location string) (*model.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if productID != "" {
		q += ` AND product_id = ?`
		args = append(args, productID)
	}
	if name != "" {
		q += ` AND name LIKE CONCAT('%', ?, '%')`
		args = append(args, name)
	}
	if location != "" {
		q += ` AND slot_id = ?`
		args = append(args, location)
	}
	q += ` ORDER BY date_added DESC LIMIT 1`

	row := r.db.QueryRowContext(ctx, q, args...)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeleteByProductIDTx removes a product inside an existing
// transaction, paired with the ReleaseTx that freed its slot.
func (r *ProductRepo) DeleteByProductIDTx(ctx context.Context, tx *sql.Tx, productID string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}
