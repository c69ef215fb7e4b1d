package models

import "time"

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Session represents a user session.
type Session struct {
	Token        string    `json:"token"`
	UserID       int64     `json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Transaction represents an income or expense record.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Value       float64         `json:"value"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Recurring   bool            `json:"recurring"`
}

// Goal is a savings target with manually entered progress.
type Goal struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	TargetValue  float64   `json:"target_value"`
	CurrentValue float64   `json:"current_value"`
	Deadline     time.Time `json:"deadline"`
}

// Progress returns CurrentValue/TargetValue capped to [0, 1].
func (g Goal) Progress() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	p := g.CurrentValue / g.TargetValue
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Debt is a tracked external obligation.
type Debt struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	TotalValue  float64   `json:"total_value"`
	PaidValue   float64   `json:"paid_value"`
	DueDate     time.Time `json:"due_date"`
}

// Remaining returns what is still owed.
func (d Debt) Remaining() float64 {
	return d.TotalValue - d.PaidValue
}

// Financing is a loan simulation split into installments.
type Financing struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Name               string    `json:"name"`
	TotalOriginalValue float64   `json:"total_original_value"`
	CreatedAt          time.Time `json:"created_at"`
}

// Installment is one scheduled payment of a Financing.
type Installment struct {
	ID          int64   `json:"id"`
	FinancingID int64   `json:"financing_id"`
	Number      int     `json:"installment_number"`
	Value       float64 `json:"value"`
	IsPaid      bool    `json:"is_paid"`
}
