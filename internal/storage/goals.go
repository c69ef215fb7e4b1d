package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"financeiro/internal/models"
)

// ErrInvalidTarget is returned for a goal or debt with a non-positive target.
var ErrInvalidTarget = errors.New("target value must be positive")

// CreateGoal inserts a savings goal. CurrentValue may carry an amount
// already saved.
func (db *DB) CreateGoal(ctx context.Context, g *models.Goal) error {
	if g.TargetValue <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, g.TargetValue)
	}
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO goals (user_id, title, target_value, current_value, deadline) VALUES (?, ?, ?, ?, ?)",
		g.UserID, g.Title, g.TargetValue, g.CurrentValue, nullDay(g.Deadline),
	)
	if err != nil {
		return err
	}
	g.ID, err = result.LastInsertId()
	return err
}

// ListGoals returns the user's goals, nearest deadline first.
func (db *DB) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, title, target_value, current_value, deadline
		FROM goals WHERE user_id = ?
		ORDER BY deadline IS NULL, deadline, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		var deadline sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetValue, &g.CurrentValue, &deadline); err != nil {
			return nil, err
		}
		g.Deadline = deadline.Time
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetGoal retrieves a goal owned by userID.
func (db *DB) GetGoal(ctx context.Context, userID, id int64) (*models.Goal, error) {
	var g models.Goal
	var deadline sql.NullTime
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, user_id, title, target_value, current_value, deadline FROM goals WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&g.ID, &g.UserID, &g.Title, &g.TargetValue, &g.CurrentValue, &deadline)
	if err != nil {
		return nil, notFound(err)
	}
	g.Deadline = deadline.Time
	return &g, nil
}

// ContributeToGoal adds amount to the goal's current value. There is no
// upper bound; a goal may be overfunded.
func (db *DB) ContributeToGoal(ctx context.Context, userID, id int64, amount float64) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE goals SET current_value = current_value + ? WHERE id = ? AND user_id = ?",
		amount, id, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteGoal removes a goal owned by userID.
func (db *DB) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM goals WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
