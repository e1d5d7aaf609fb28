package repository // repository defines data access for storage slots

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"strings"      // strings for duplicate-key detection

	"github.com/iliyamo/warehouse-qr-system/internal/model"
)

const slotColumns = `id, area, slot_id, is_empty, product_id, created_at, updated_at`

// SlotRepo provides methods to work with slots in the database.  The
// slots table is the authoritative record of occupancy, so the two
// occupancy transitions (TryOccupyTx, ReleaseTx) are expressed as
// single conditional updates rather than read-then-write pairs.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo constructs a SlotRepo with the given DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// DB exposes the underlying handle for transaction-spanning callers.
func (r *SlotRepo) DB() *sql.DB { return r.db }

func scanSlot(row interface{ Scan(...interface{}) error }) (model.Slot, error) {
	var (
		s   model.Slot
		pid sql.NullString
	)
	err := row.Scan(&s.ID, &s.Area, &s.SlotID, &s.IsEmpty, &pid, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Slot{}, err
	}
	if pid.Valid {
		s.ProductID = &pid.String
	}
	return s, nil
}

// Create inserts a single empty slot. A duplicate slot_id anywhere in
// the warehouse maps to ErrSlotExists.
func (r *SlotRepo) Create(ctx context.Context, s *model.Slot) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (area, slot_id, is_empty, product_id) VALUES (?, ?, 1, NULL)`,
		s.Area, s.SlotID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSlotExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.IsEmpty = true
	s.ProductID = nil
	return nil
}

// CreateBulk inserts multiple slots in a single statement.  All rows
// land or none do, which gives bulk slot creation its all-or-nothing
// behavior.  Duplicate slot ids map to ErrSlotExists.
func (r *SlotRepo) CreateBulk(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO slots (area, slot_id, is_empty, product_id) VALUES `
	args := make([]interface{}, 0, len(slots)*2)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, 1, NULL)"
		args = append(args, s.Area, s.SlotID)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrSlotExists
	}
	return err
}

// GetAll retrieves every slot in primary-key order.  Automatic
// allocation walks this order, so "first empty slot" means the oldest
// slot row, matching the original system's natural store order.
func (r *SlotRepo) GetAll(ctx context.Context) ([]model.Slot, error) {
	return r.queryMany(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY id`)
}

// GetEmpty retrieves all unoccupied slots in primary-key order.
func (r *SlotRepo) GetEmpty(ctx context.Context) ([]model.Slot, error) {
	return r.queryMany(ctx, `SELECT `+slotColumns+` FROM slots WHERE is_empty = 1 ORDER BY id`)
}

// GetByArea retrieves all slots belonging to one area.
func (r *SlotRepo) GetByArea(ctx context.Context, area string) ([]model.Slot, error) {
	return r.queryMany(ctx, `SELECT `+slotColumns+` FROM slots WHERE area = ? ORDER BY id`, area)
}

func (r *SlotRepo) queryMany(ctx context.Context, q string, args ...interface{}) ([]model.Slot, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a slot by its primary key.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*model.Slot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)
	s, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetBySlotID retrieves a slot by its human-readable identifier.
func (r *SlotRepo) GetBySlotID(ctx context.Context, slotID string) (*model.Slot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE slot_id = ?`, slotID)
	s, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CountOccupiedByArea returns how many slots of an area currently hold
// a product.  Area deletion is rejected while this is non-zero.
func (r *SlotRepo) CountOccupiedByArea(ctx context.Context, area string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slots WHERE area = ? AND is_empty = 0`, area).Scan(&n)
	return n, err
}

// TryOccupyTx marks a slot occupied by the given product, but only if
// it is currently empty, in one conditional update.  Zero affected
// rows means a concurrent request took the slot first (or the id is
// unknown); the caller receives ErrSlotTaken or ErrSlotNotFound and no
// compensating action is needed.
func (r *SlotRepo) TryOccupyTx(ctx context.Context, tx *sql.Tx, slotID, productID string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE slots SET is_empty = 0, product_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE slot_id = ? AND is_empty = 1`,
		productID, slotID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM slots WHERE slot_id = ?)`, slotID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrSlotNotFound
		}
		return ErrSlotTaken
	}
	return nil
}

// ReleaseTx frees a slot inside an existing transaction.  Releasing an
// already-empty slot affects the row without changing its state, so
// retried retrievals stay harmless.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, slotID string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE slots SET is_empty = 1, product_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE slot_id = ?`, slotID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// RenameAreaTx rewrites the denormalized area name on every slot of an
// area.  Runs inside the same transaction as the areas.name update.
func (r *SlotRepo) RenameAreaTx(ctx context.Context, tx *sql.Tx, oldName, newName string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE slots SET area = ?, updated_at = CURRENT_TIMESTAMP WHERE area = ?`,
		newName, oldName)
	return err
}

// DeleteByID removes a slot row.  Handlers verify the slot is empty
// before calling this.
func (r *SlotRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// DeleteByAreaTx removes all slots of an area inside an existing
// transaction, as the first half of area deletion.
func (r *SlotRepo) DeleteByAreaTx(ctx context.Context, tx *sql.Tx, area string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE area = ?`, area)
	return err
}

// DeleteAll clears the slots table.  Used only by the warehouse setup
// bootstrap route.
func (r *SlotRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM slots`)
	return err
}

// DeleteByIDPrefix removes slots whose slot_id starts with the given
// prefix.  The cleanup route uses it to drop legacy rows that were
// generated before prefix stripping existed ("Section-1", "Section-2").
func (r *SlotRepo) DeleteByIDPrefix(ctx context.Context, prefix string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE slot_id LIKE CONCAT(?, '%')`, prefix)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
