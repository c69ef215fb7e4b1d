package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"financeiro/internal/models"
)

// ErrInvalidValue is returned for a transaction value that is not a
// positive finite number.
var ErrInvalidValue = errors.New("value must be positive")

const transactionColumns = "id, user_id, type, category, value, date, description, recurring"

func validateTransaction(t *models.Transaction) error {
	typ, err := models.ParseTransactionType(string(t.Type))
	if err != nil {
		return err
	}
	t.Type = typ
	if err := models.ValidateCategory(t.Type, t.Category); err != nil {
		return err
	}
	if !(t.Value > 0) || math.IsInf(t.Value, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidValue, t.Value)
	}
	return nil
}

// CreateTransaction inserts a new transaction after validating its type,
// category and value. A zero date means today.
func (db *DB) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if err := validateTransaction(t); err != nil {
		return err
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	t.Date = day(t.Date)

	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO transactions (user_id, type, category, value, date, description, recurring) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.UserID, string(t.Type), t.Category, t.Value, t.Date, t.Description, t.Recurring,
	)
	if err != nil {
		return err
	}
	t.ID, err = result.LastInsertId()
	return err
}

// GetTransaction retrieves a single transaction owned by userID.
func (db *DB) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// UpdateTransaction updates an existing transaction owned by t.UserID.
func (db *DB) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	if err := validateTransaction(t); err != nil {
		return err
	}
	t.Date = day(t.Date)
	res, err := db.conn.ExecContext(ctx,
		"UPDATE transactions SET type = ?, category = ?, value = ?, date = ?, description = ?, recurring = ? WHERE id = ? AND user_id = ?",
		string(t.Type), t.Category, t.Value, t.Date, t.Description, t.Recurring, t.ID, t.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteTransaction removes a transaction owned by userID.
func (db *DB) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListTransactionsByMonth returns the user's transactions in the given month,
// newest first.
func (db *DB) ListTransactionsByMonth(ctx context.Context, userID int64, year int, month time.Month) ([]models.Transaction, error) {
	start, end := monthRange(year, month)
	return db.listTransactions(ctx, userID, start, end)
}

// ListTransactionsByYear returns the user's transactions in the given year,
// newest first.
func (db *DB) ListTransactionsByYear(ctx context.Context, userID int64, year int) ([]models.Transaction, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return db.listTransactions(ctx, userID, start, start.AddDate(1, 0, 0))
}

// RecentTransactions returns the user's latest transactions.
func (db *DB) RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

func (db *DB) listTransactions(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? AND date >= ? AND date < ? ORDER BY date DESC, id DESC",
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	var typ string
	if err := row.Scan(&t.ID, &t.UserID, &typ, &t.Category, &t.Value, &t.Date, &t.Description, &t.Recurring); err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(typ)
	return &t, nil
}
