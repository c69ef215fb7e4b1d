package planner

import (
	"context"
	"fmt"
	"strings"

	"financeiro/internal/models"
)

// Store is the persistence the planner needs.
type Store interface {
	CreateFinancing(ctx context.Context, userID int64, name string, total float64, values []float64) (int64, error)
	GetFinancing(ctx context.Context, userID, id int64) (*models.Financing, error)
	ListFinancings(ctx context.Context, userID int64) ([]models.Financing, error)
	ListInstallments(ctx context.Context, userID, financingID int64) ([]models.Installment, error)
	UpdateInstallment(ctx context.Context, userID, id int64, paid bool, value float64) error
	DeleteFinancing(ctx context.Context, userID, id int64) error
}

// Service creates and tracks installment plans.
type Service struct {
	store Store
}

// NewService returns a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Plan is a financing with its installments and summary.
type Plan struct {
	models.Financing
	Installments []models.Installment
	Summary      Summary
}

// CreatePlan splits total into count installments and stores the plan with
// its total rounded to cents.
func (s *Service) CreatePlan(ctx context.Context, userID int64, name string, total float64, count int) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	values, err := Split(total, count)
	if err != nil {
		return 0, err
	}
	// store the total the installments were split from
	if total, err = RoundTotal(total); err != nil {
		return 0, err
	}
	id, err := s.store.CreateFinancing(ctx, userID, name, total, values)
	if err != nil {
		return 0, fmt.Errorf("create financing: %w", err)
	}
	return id, nil
}

// SetInstallment updates the paid flag and value of one installment.
func (s *Service) SetInstallment(ctx context.Context, userID, installmentID int64, paid bool, value float64) error {
	return s.store.UpdateInstallment(ctx, userID, installmentID, paid, value)
}

// Summary returns paid and remaining totals of a plan. A deleted or unknown
// plan yields the store's not-found error.
func (s *Service) Summary(ctx context.Context, userID, financingID int64) (Summary, error) {
	installments, err := s.store.ListInstallments(ctx, userID, financingID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(installments), nil
}

// Get loads a plan with its installments.
func (s *Service) Get(ctx context.Context, userID, financingID int64) (*Plan, error) {
	f, err := s.store.GetFinancing(ctx, userID, financingID)
	if err != nil {
		return nil, err
	}
	installments, err := s.store.ListInstallments(ctx, userID, financingID)
	if err != nil {
		return nil, err
	}
	return &Plan{Financing: *f, Installments: installments, Summary: Summarize(installments)}, nil
}

// List returns every plan of the user with its summary.
func (s *Service) List(ctx context.Context, userID int64) ([]Plan, error) {
	financings, err := s.store.ListFinancings(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans := make([]Plan, 0, len(financings))
	for _, f := range financings {
		installments, err := s.store.ListInstallments(ctx, userID, f.ID)
		if err != nil {
			return nil, err
		}
		plans = append(plans, Plan{Financing: f, Installments: installments, Summary: Summarize(installments)})
	}
	return plans, nil
}

// DeletePlan removes a plan and its installments.
func (s *Service) DeletePlan(ctx context.Context, userID, financingID int64) error {
	return s.store.DeleteFinancing(ctx, userID, financingID)
}
