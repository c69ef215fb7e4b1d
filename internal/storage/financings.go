package storage

import (
	"context"
	"fmt"
	"time"

	"financeiro/internal/models"
)

// CreateFinancing inserts a financing and one installment per value in a
// single transaction; on failure nothing is kept.
func (db *DB) CreateFinancing(ctx context.Context, userID int64, name string, total float64, values []float64) (id int64, err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO financings (user_id, name, total_original_value, created_at) VALUES (?, ?, ?, ?)",
		userID, name, total, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO installments (financing_id, installment_number, value, is_paid) VALUES (?, ?, ?, 0)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, v := range values {
		if _, err = stmt.ExecContext(ctx, id, i+1, v); err != nil {
			return 0, fmt.Errorf("installment %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetFinancing retrieves a financing owned by userID.
func (db *DB) GetFinancing(ctx context.Context, userID, id int64) (*models.Financing, error) {
	var f models.Financing
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, user_id, name, total_original_value, created_at FROM financings WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&f.ID, &f.UserID, &f.Name, &f.TotalOriginalValue, &f.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// ListFinancings returns the user's financings, newest first.
func (db *DB) ListFinancings(ctx context.Context, userID int64) ([]models.Financing, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, user_id, name, total_original_value, created_at FROM financings WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Financing
	for rows.Next() {
		var f models.Financing
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.TotalOriginalValue, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListInstallments returns the installments of a financing owned by userID,
// ordered by number. It returns ErrNotFound for an unknown financing.
func (db *DB) ListInstallments(ctx context.Context, userID, financingID int64) ([]models.Installment, error) {
	if _, err := db.GetFinancing(ctx, userID, financingID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, financing_id, installment_number, value, is_paid FROM installments WHERE financing_id = ? ORDER BY installment_number",
		financingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Installment
	for rows.Next() {
		var in models.Installment
		if err := rows.Scan(&in.ID, &in.FinancingID, &in.Number, &in.Value, &in.IsPaid); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// UpdateInstallment sets the paid flag and value of an installment whose
// financing belongs to userID. The value is stored as given.
func (db *DB) UpdateInstallment(ctx context.Context, userID, id int64, paid bool, value float64) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE installments SET is_paid = ?, value = ?
		WHERE id = ? AND financing_id IN (SELECT id FROM financings WHERE user_id = ?)`,
		paid, value, id, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteFinancing removes a financing; its installments go with it through
// ON DELETE CASCADE.
func (db *DB) DeleteFinancing(ctx context.Context, userID, id int64) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM financings WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CountInstallments returns how many installment rows reference financingID,
// regardless of owner.
func (db *DB) CountInstallments(ctx context.Context, financingID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM installments WHERE financing_id = ?", financingID).Scan(&n)
	return n, err
}
