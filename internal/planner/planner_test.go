package planner

import (
	"math"
	"testing"

	"financeiro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func TestSplitEven(t *testing.T) {
	values, err := Split(1200, 12)
	require.NoError(t, err)
	require.Len(t, values, 12)
	for _, v := range values {
		assert.Equal(t, 100.0, v)
	}
}

func TestSplitRemainderOnLastInstallment(t *testing.T) {
	values, err := Split(100, 3)
	require.NoError(t, err)
	require.Len(t, values, 3)

	assert.Equal(t, 33.33, values[0])
	assert.Equal(t, 33.33, values[1])
	assert.Equal(t, 33.34, values[2])
	assert.InDelta(t, 100.0, sum(values), 1e-9)
}

func TestSplitSumsToTotal(t *testing.T) {
	cases := []struct {
		total float64
		count int
	}{
		{1000, 7},
		{0.1, 3},
		{99999.99, 48},
		{15.5, 1},
		{250, 600},
	}
	for _, c := range cases {
		values, err := Split(c.total, c.count)
		require.NoError(t, err)
		assert.Len(t, values, c.count)
		assert.InDelta(t, c.total, sum(values), 1e-6, "total %v count %d", c.total, c.count)
		for _, v := range values {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestSplitInvalid(t *testing.T) {
	_, err := Split(100, 0)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = Split(100, MaxInstallments+1)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = Split(0, 3)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = Split(-10, 3)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = Split(math.Inf(1), 2)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = Split(math.NaN(), 2)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestSplitRejectsTotalBelowOneCent(t *testing.T) {
	for _, total := range []float64{0.004, 0.0049, 1e-9} {
		_, err := Split(total, 3)
		assert.ErrorIs(t, err, ErrInvalidPlan, "total %v", total)

		_, err = RoundTotal(total)
		assert.ErrorIs(t, err, ErrInvalidPlan, "total %v", total)
	}

	values, err := Split(0.005, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.01}, values)
}

func TestSplitSubCentTotalSumsToRoundedTotal(t *testing.T) {
	values, err := Split(100.005, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 50.01}, values)

	rounded, err := RoundTotal(100.005)
	require.NoError(t, err)
	assert.Equal(t, 100.01, rounded)
	assert.InDelta(t, rounded, sum(values), 1e-9)
}

func TestSummarize(t *testing.T) {
	installments := []models.Installment{
		{Number: 1, Value: 250, IsPaid: true},
		{Number: 2, Value: 250, IsPaid: true},
		{Number: 3, Value: 250},
		{Number: 4, Value: 250},
	}
	s := Summarize(installments)
	assert.Equal(t, 1000.0, s.Total)
	assert.Equal(t, 500.0, s.PaidTotal)
	assert.Equal(t, 500.0, s.RemainingTotal)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2, s.PaidCount)
}

func TestSummarizeKeepsEditedValues(t *testing.T) {
	installments := []models.Installment{
		{Number: 1, Value: 400, IsPaid: true},
		{Number: 2, Value: 250},
	}
	s := Summarize(installments)
	assert.Equal(t, 650.0, s.Total)
	assert.Equal(t, 400.0, s.PaidTotal)
	assert.Equal(t, 250.0, s.RemainingTotal)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}
