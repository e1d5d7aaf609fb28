package repository // repository defines data access for warehouse areas

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"strings"      // strings for duplicate-key detection

	"github.com/iliyamo/warehouse-qr-system/internal/model"
)

// AreaRepo provides methods to work with areas in the database.
type AreaRepo struct {
	db *sql.DB
}

// NewAreaRepo constructs an AreaRepo with the given DB handle.
func NewAreaRepo(db *sql.DB) *AreaRepo {
	return &AreaRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// that span slots, products and areas.
func (r *AreaRepo) DB() *sql.DB { return r.db }

// Create inserts a new area. On success the area's ID is populated.
// A duplicate name maps to ErrAreaExists (MySQL error 1062).
func (r *AreaRepo) Create(ctx context.Context, a *model.Area) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO areas (name) VALUES (?)`, a.Name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAreaExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetAll retrieves every area ordered by name.
func (r *AreaRepo) GetAll(ctx context.Context) ([]model.Area, error) {
	const q = `SELECT id, name, created_at, updated_at FROM areas ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Area
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves an area by its primary key.
func (r *AreaRepo) GetByID(ctx context.Context, id uint64) (*model.Area, error) {
	const q = `SELECT id, name, created_at, updated_at FROM areas WHERE id = ?`
	var a model.Area
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByName retrieves an area by its unique name.
func (r *AreaRepo) GetByName(ctx context.Context, name string) (*model.Area, error) {
	const q = `SELECT id, name, created_at, updated_at FROM areas WHERE name = ?`
	var a model.Area
	err := r.db.QueryRowContext(ctx, q, name).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateNameTx renames an area inside an existing transaction.  The
// caller must also rewrite the denormalized area name on the slots via
// SlotRepo.RenameAreaTx before committing.
func (r *AreaRepo) UpdateNameTx(ctx context.Context, tx *sql.Tx, id uint64, name string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE areas SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAreaExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAreaNotFound
	}
	return nil
}

// DeleteTx removes the area row inside an existing transaction.  The
// caller deletes the area's slots first so an occupied-looking slot
// never outlives its area.
func (r *AreaRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM areas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAreaNotFound
	}
	return nil
}

// DeleteAll clears the areas table.  Used only by the warehouse setup
// bootstrap route.
func (r *AreaRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM areas`)
	return err
}

// CreateBulk inserts multiple areas in a single statement.
func (r *AreaRepo) CreateBulk(ctx context.Context, areas []model.Area) error {
	if len(areas) == 0 {
		return nil
	}
	query := `INSERT INTO areas (name) VALUES `
	args := make([]interface{}, 0, len(areas))
	for i, a := range areas {
		if i > 0 {
			query += ","
		}
		query += "(?)"
		args = append(args, a.Name)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
