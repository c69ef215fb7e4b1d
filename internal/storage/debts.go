package storage

import (
	"context"
	"database/sql"
	"fmt"

	"financeiro/internal/models"
)

// CreateDebt records a debt. PaidValue may carry an amount already paid.
func (db *DB) CreateDebt(ctx context.Context, d *models.Debt) error {
	if d.TotalValue <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, d.TotalValue)
	}
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO debts (user_id, description, total_value, paid_value, due_date) VALUES (?, ?, ?, ?, ?)",
		d.UserID, d.Description, d.TotalValue, d.PaidValue, nullDay(d.DueDate),
	)
	if err != nil {
		return err
	}
	d.ID, err = result.LastInsertId()
	return err
}

// ListDebts returns the user's debts ordered by due date.
func (db *DB) ListDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, description, total_value, paid_value, due_date
		FROM debts WHERE user_id = ?
		ORDER BY due_date IS NULL, due_date, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var d models.Debt
		var due sql.NullTime
		if err := rows.Scan(&d.ID, &d.UserID, &d.Description, &d.TotalValue, &d.PaidValue, &due); err != nil {
			return nil, err
		}
		d.DueDate = due.Time
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// PayDebt adds amount to the debt's paid value.
func (db *DB) PayDebt(ctx context.Context, userID, id int64, amount float64) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE debts SET paid_value = paid_value + ? WHERE id = ? AND user_id = ?",
		amount, id, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteDebt removes a debt owned by userID.
func (db *DB) DeleteDebt(ctx context.Context, userID, id int64) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM debts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DebtRemaining returns the sum of total minus paid over all the user's debts.
func (db *DB) DebtRemaining(ctx context.Context, userID int64) (float64, error) {
	var remaining float64
	err := db.conn.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_value), 0) - COALESCE(SUM(paid_value), 0) FROM debts WHERE user_id = ?",
		userID,
	).Scan(&remaining)
	return remaining, err
}
