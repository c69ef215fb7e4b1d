package storage

import (
	"context"
	"math"
	"testing"
	"time"

	"financeiro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DBTestSuite provides a test suite for database operations
type DBTestSuite struct {
	suite.Suite
	db   *DB
	user *models.User
	ctx  context.Context
}

// SetupTest runs before each test
func (suite *DBTestSuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.ctx = context.Background()

	user, err := db.CreateUser(suite.ctx, "ana", "hash", "Ana")
	require.NoError(suite.T(), err, "failed to create test user")
	suite.user = user
}

// TearDownTest runs after each test
func (suite *DBTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *DBTestSuite) tx(typ models.TransactionType, category string, value float64, date time.Time) *models.Transaction {
	t := &models.Transaction{UserID: suite.user.ID, Type: typ, Category: category, Value: value, Date: date}
	require.NoError(suite.T(), suite.db.CreateTransaction(suite.ctx, t))
	return t
}

func (suite *DBTestSuite) TestCreateUserDuplicate() {
	_, err := suite.db.CreateUser(suite.ctx, "ana", "other", "")
	assert.ErrorIs(suite.T(), err, ErrDuplicate)

	count, err := suite.db.UserCount(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)
}

func (suite *DBTestSuite) TestGetUserByUsername() {
	u, err := suite.db.GetUserByUsername(suite.ctx, "ana")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.user.ID, u.ID)
	assert.Equal(suite.T(), "Ana", u.DisplayName)

	_, err = suite.db.GetUserByUsername(suite.ctx, "nobody")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DBTestSuite) TestCreateTransaction() {
	t := suite.tx(models.Income, "Salário", 1000, time.Date(2024, 5, 1, 15, 30, 0, 0, time.Local))
	assert.NotZero(suite.T(), t.ID)

	got, err := suite.db.GetTransaction(suite.ctx, suite.user.ID, t.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.Income, got.Type)
	assert.Equal(suite.T(), "Salário", got.Category)
	assert.Equal(suite.T(), 1000.0, got.Value)
	assert.Equal(suite.T(), "2024-05-01", got.Date.Format("2006-01-02"))
}

func (suite *DBTestSuite) TestCreateTransactionValidation() {
	cases := []struct {
		name string
		tx   models.Transaction
		err  error
	}{
		{"unknown type", models.Transaction{Type: "Transfer", Category: "Outros", Value: 1}, models.ErrInvalidType},
		{"category of other type", models.Transaction{Type: models.Income, Category: "Moradia", Value: 1}, models.ErrInvalidCategory},
		{"zero value", models.Transaction{Type: models.Expense, Category: "Moradia", Value: 0}, ErrInvalidValue},
		{"negative value", models.Transaction{Type: models.Expense, Category: "Moradia", Value: -5}, ErrInvalidValue},
		{"infinite value", models.Transaction{Type: models.Expense, Category: "Moradia", Value: math.Inf(1)}, ErrInvalidValue},
		{"NaN value", models.Transaction{Type: models.Expense, Category: "Moradia", Value: math.NaN()}, ErrInvalidValue},
	}
	for _, c := range cases {
		c.tx.UserID = suite.user.ID
		err := suite.db.CreateTransaction(suite.ctx, &c.tx)
		assert.ErrorIs(suite.T(), err, c.err, c.name)
	}
}

func (suite *DBTestSuite) TestListTransactionsByMonth() {
	suite.tx(models.Income, "Salário", 1000, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	suite.tx(models.Expense, "Moradia", 300, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	suite.tx(models.Expense, "Lazer", 50, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
	suite.tx(models.Expense, "Lazer", 70, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	suite.tx(models.Expense, "Lazer", 80, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	list, err := suite.db.ListTransactionsByMonth(suite.ctx, suite.user.ID, 2024, time.May)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 3)
	assert.Equal(suite.T(), 50.0, list[0].Value, "newest first")
	assert.Equal(suite.T(), 1000.0, list[2].Value)

	year, err := suite.db.ListTransactionsByYear(suite.ctx, suite.user.ID, 2024)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), year, 5)
}

func (suite *DBTestSuite) TestTransactionsAreScopedByUser() {
	other, err := suite.db.CreateUser(suite.ctx, "bruno", "hash", "")
	require.NoError(suite.T(), err)

	t := suite.tx(models.Expense, "Saúde", 120, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))

	list, err := suite.db.ListTransactionsByMonth(suite.ctx, other.ID, 2024, time.May)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)

	assert.ErrorIs(suite.T(), suite.db.DeleteTransaction(suite.ctx, other.ID, t.ID), ErrNotFound)
	_, err = suite.db.GetTransaction(suite.ctx, other.ID, t.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DBTestSuite) TestUpdateAndDeleteTransaction() {
	t := suite.tx(models.Expense, "Transporte", 20, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))

	t.Value = 25
	t.Category = "Lazer"
	t.Recurring = true
	require.NoError(suite.T(), suite.db.UpdateTransaction(suite.ctx, t))

	got, err := suite.db.GetTransaction(suite.ctx, suite.user.ID, t.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 25.0, got.Value)
	assert.Equal(suite.T(), "Lazer", got.Category)
	assert.True(suite.T(), got.Recurring)

	require.NoError(suite.T(), suite.db.DeleteTransaction(suite.ctx, suite.user.ID, t.ID))
	_, err = suite.db.GetTransaction(suite.ctx, suite.user.ID, t.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DBTestSuite) TestRecentTransactions() {
	for i := 1; i <= 5; i++ {
		suite.tx(models.Expense, "Alimentação", float64(i), time.Date(2024, 5, i, 0, 0, 0, 0, time.UTC))
	}
	recent, err := suite.db.RecentTransactions(suite.ctx, suite.user.ID, 3)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recent, 3)
	assert.Equal(suite.T(), 5.0, recent[0].Value)
}

func (suite *DBTestSuite) TestGoals() {
	g := &models.Goal{UserID: suite.user.ID, Title: "Viagem", TargetValue: 5000, CurrentValue: 500,
		Deadline: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(suite.T(), suite.db.CreateGoal(suite.ctx, g))

	noDeadline := &models.Goal{UserID: suite.user.ID, Title: "Reserva", TargetValue: 10000}
	require.NoError(suite.T(), suite.db.CreateGoal(suite.ctx, noDeadline))

	require.NoError(suite.T(), suite.db.ContributeToGoal(suite.ctx, suite.user.ID, g.ID, 250))
	require.NoError(suite.T(), suite.db.ContributeToGoal(suite.ctx, suite.user.ID, g.ID, 250))

	goals, err := suite.db.ListGoals(suite.ctx, suite.user.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), goals, 2)
	assert.Equal(suite.T(), "Viagem", goals[0].Title)
	assert.Equal(suite.T(), 1000.0, goals[0].CurrentValue)
	assert.Equal(suite.T(), "2025-12-01", goals[0].Deadline.Format("2006-01-02"))
	assert.True(suite.T(), goals[1].Deadline.IsZero())
	assert.Equal(suite.T(), 0.0, goals[1].CurrentValue)

	assert.ErrorIs(suite.T(), suite.db.CreateGoal(suite.ctx, &models.Goal{UserID: suite.user.ID, Title: "x"}), ErrInvalidTarget)
	assert.ErrorIs(suite.T(), suite.db.ContributeToGoal(suite.ctx, suite.user.ID, 999, 1), ErrNotFound)

	require.NoError(suite.T(), suite.db.DeleteGoal(suite.ctx, suite.user.ID, g.ID))
	_, err = suite.db.GetGoal(suite.ctx, suite.user.ID, g.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DBTestSuite) TestDebts() {
	d := &models.Debt{UserID: suite.user.ID, Description: "Cartão", TotalValue: 1500, PaidValue: 100,
		DueDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}
	require.NoError(suite.T(), suite.db.CreateDebt(suite.ctx, d))
	require.NoError(suite.T(), suite.db.CreateDebt(suite.ctx, &models.Debt{UserID: suite.user.ID, Description: "Empréstimo", TotalValue: 500}))

	require.NoError(suite.T(), suite.db.PayDebt(suite.ctx, suite.user.ID, d.ID, 400))

	debts, err := suite.db.ListDebts(suite.ctx, suite.user.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), debts, 2)
	assert.Equal(suite.T(), 500.0, debts[0].PaidValue)
	assert.Equal(suite.T(), 1000.0, debts[0].Remaining())

	remaining, err := suite.db.DebtRemaining(suite.ctx, suite.user.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1500.0, remaining)

	require.NoError(suite.T(), suite.db.DeleteDebt(suite.ctx, suite.user.ID, d.ID))
	assert.ErrorIs(suite.T(), suite.db.DeleteDebt(suite.ctx, suite.user.ID, d.ID), ErrNotFound)
}

func (suite *DBTestSuite) TestDebtRemainingWithoutDebts() {
	remaining, err := suite.db.DebtRemaining(suite.ctx, suite.user.ID)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), remaining)
}

func (suite *DBTestSuite) TestCreateFinancingIsAtomic() {
	// a non-existent owner fails the financing insert; nothing may remain
	_, err := suite.db.CreateFinancing(suite.ctx, 9999, "Fantasma", 100, []float64{50, 50})
	require.Error(suite.T(), err)

	list, err := suite.db.ListFinancings(suite.ctx, 9999)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)
}

func (suite *DBTestSuite) TestDeleteFinancingCascades() {
	id, err := suite.db.CreateFinancing(suite.ctx, suite.user.ID, "Carro", 300, []float64{100, 100, 100})
	require.NoError(suite.T(), err)

	installments, err := suite.db.ListInstallments(suite.ctx, suite.user.ID, id)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), installments, 3)
	assert.Equal(suite.T(), 3, installments[2].Number)

	require.NoError(suite.T(), suite.db.DeleteFinancing(suite.ctx, suite.user.ID, id))

	n, err := suite.db.CountInstallments(suite.ctx, id)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), n)

	_, err = suite.db.ListInstallments(suite.ctx, suite.user.ID, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

// SessionTestSuite provides a test suite for session operations
type SessionTestSuite struct {
	suite.Suite
	db   *DB
	user *models.User
	ctx  context.Context
}

// SetupTest runs before each test
func (suite *SessionTestSuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.ctx = context.Background()

	user, err := suite.db.CreateUser(suite.ctx, "testuser", "$2a$10$placeholder", "")
	require.NoError(suite.T(), err, "failed to create test user")
	suite.user = user
}

// TearDownTest runs after each test
func (suite *SessionTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *SessionTestSuite) TestCreateAndValidateSession() {
	expiresAt := time.Now().Add(5 * 24 * time.Hour)
	err := suite.db.CreateSession(suite.ctx, "token-1", suite.user.ID, expiresAt)
	require.NoError(suite.T(), err)

	sessionUser, err := suite.db.ValidateSession(suite.ctx, "token-1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "testuser", sessionUser.Username)
}

func (suite *SessionTestSuite) TestValidateSessionWithInfo() {
	err := suite.db.CreateSession(suite.ctx, "token-2", suite.user.ID, time.Now().Add(time.Hour))
	require.NoError(suite.T(), err)

	info, err := suite.db.ValidateSessionWithInfo(suite.ctx, "token-2")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "testuser", info.User.Username)

	timeSinceActivity := time.Since(info.LastActivity)
	assert.Less(suite.T(), timeSinceActivity, 5*time.Second, "LastActivity should be recent")
}

func (suite *SessionTestSuite) TestRenewSession() {
	originalExpiry := time.Now().Add(24 * time.Hour)
	err := suite.db.CreateSession(suite.ctx, "token-3", suite.user.ID, originalExpiry)
	require.NoError(suite.T(), err)

	// Wait a moment to ensure timestamps differ
	time.Sleep(10 * time.Millisecond)

	originalInfo, err := suite.db.ValidateSessionWithInfo(suite.ctx, "token-3")
	require.NoError(suite.T(), err)

	newExpiry := time.Now().Add(5 * 24 * time.Hour)
	err = suite.db.RenewSession(suite.ctx, "token-3", newExpiry)
	require.NoError(suite.T(), err)

	updatedInfo, err := suite.db.ValidateSessionWithInfo(suite.ctx, "token-3")
	require.NoError(suite.T(), err)

	assert.True(suite.T(), updatedInfo.LastActivity.After(originalInfo.LastActivity),
		"LastActivity should be updated after renewal")
	assert.True(suite.T(), updatedInfo.ExpiresAt.After(originalInfo.ExpiresAt),
		"ExpiresAt should be extended after renewal")
}

func (suite *SessionTestSuite) TestExpiredSessionIsInvalid() {
	err := suite.db.CreateSession(suite.ctx, "old", suite.user.ID, time.Now().Add(-time.Hour))
	require.NoError(suite.T(), err)

	_, err = suite.db.ValidateSession(suite.ctx, "old")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *SessionTestSuite) TestDeleteSession() {
	err := suite.db.CreateSession(suite.ctx, "token-4", suite.user.ID, time.Now().Add(time.Hour))
	require.NoError(suite.T(), err)

	_, err = suite.db.ValidateSession(suite.ctx, "token-4")
	require.NoError(suite.T(), err, "session should exist before deletion")

	err = suite.db.DeleteSession(suite.ctx, "token-4")
	require.NoError(suite.T(), err)

	_, err = suite.db.ValidateSession(suite.ctx, "token-4")
	assert.ErrorIs(suite.T(), err, ErrNotFound, "expected error after deleting session")
}

func (suite *SessionTestSuite) TestCleanExpiredSessions() {
	require.NoError(suite.T(), suite.db.CreateSession(suite.ctx, "live", suite.user.ID, time.Now().Add(time.Hour)))
	require.NoError(suite.T(), suite.db.CreateSession(suite.ctx, "dead-1", suite.user.ID, time.Now().Add(-time.Hour)))
	require.NoError(suite.T(), suite.db.CreateSession(suite.ctx, "dead-2", suite.user.ID, time.Now().Add(-2*time.Hour)))

	n, err := suite.db.CleanExpiredSessions(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), n)

	_, err = suite.db.ValidateSession(suite.ctx, "live")
	assert.NoError(suite.T(), err)
}

// Test suite runners
func TestDBSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}
