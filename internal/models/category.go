package models

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidType is returned for an unknown transaction type.
	ErrInvalidType = errors.New("invalid transaction type")
	// ErrInvalidCategory is returned when a category is not permitted for a type.
	ErrInvalidCategory = errors.New("invalid category")
)

// TransactionType is either Income or Expense.
type TransactionType string

const (
	Income  TransactionType = "Entrada"
	Expense TransactionType = "Saída"
)

// TransactionTypes lists the types in display order.
var TransactionTypes = []TransactionType{Income, Expense}

var categories = map[TransactionType][]string{
	Income:  {"Salário", "Renda Extra", "Investimentos", "Outros"},
	Expense: {"Alimentação", "Moradia", "Transporte", "Lazer", "Dívidas", "Saúde", "Educação", "Outros"},
}

// ParseTransactionType accepts the stored names as well as "income"/"expense".
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case string(Income), "income", "Income":
		return Income, nil
	case string(Expense), "Saida", "expense", "Expense":
		return Expense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Categories returns the ordered categories permitted for t, or nil.
func Categories(t TransactionType) []string {
	return slices.Clone(categories[t])
}

// ValidateCategory checks that category is permitted for t.
func ValidateCategory(t TransactionType, category string) error {
	list, ok := categories[t]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	if !slices.Contains(list, category) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidCategory, category, t)
	}
	return nil
}
