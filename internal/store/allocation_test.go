package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-service/internal/model"
)

func TestSetAllocation(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")

	t.Run("set initializes both volumes", func(t *testing.T) {
		allocation, err := s.SetAllocation(company.ID, model.CategoryAGO, 1000)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, allocation.InitialVolume)
		assert.Equal(t, 1000.0, allocation.RemainingVolume)
	})

	t.Run("re-set is a full reset discarding usage", func(t *testing.T) {
		require.NoError(t, s.Deduct(company.ID, model.CategoryAGO, 400))

		allocation, err := s.SetAllocation(company.ID, model.CategoryAGO, 5000)
		require.NoError(t, err)
		assert.Equal(t, 5000.0, allocation.InitialVolume)
		assert.Equal(t, 5000.0, allocation.RemainingVolume)
	})

	t.Run("only one row per company and category", func(t *testing.T) {
		allocations, err := s.Allocations(company.ID)
		require.NoError(t, err)
		assert.Len(t, allocations, 2) // AGO and PMS, provisioned at creation
	})
}

func TestCheckAvailable(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")

	_, err := s.SetAllocation(company.ID, model.CategoryPMS, 800)
	require.NoError(t, err)

	t.Run("covered volume is available", func(t *testing.T) {
		availability, err := s.CheckAvailable(company.ID, model.CategoryPMS, 800)
		require.NoError(t, err)
		assert.True(t, availability.Available)
		assert.Equal(t, 800.0, availability.Remaining)
	})

	t.Run("excess volume is not available", func(t *testing.T) {
		availability, err := s.CheckAvailable(company.ID, model.CategoryPMS, 801)
		require.NoError(t, err)
		assert.False(t, availability.Available)
		assert.Equal(t, 800.0, availability.Remaining)
	})

	t.Run("missing row counts as zero remaining", func(t *testing.T) {
		availability, err := s.CheckAvailable(999, model.CategoryAGO, 1)
		require.NoError(t, err)
		assert.False(t, availability.Available)
		assert.Equal(t, 0.0, availability.Remaining)
	})
}

func TestDeductIfAvailable(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")

	_, err := s.SetAllocation(company.ID, model.CategoryAGO, 1000)
	require.NoError(t, err)

	t.Run("deducts when balance covers the volume", func(t *testing.T) {
		require.NoError(t, s.DeductIfAvailable(company.ID, model.CategoryAGO, 600))

		availability, err := s.CheckAvailable(company.ID, model.CategoryAGO, 0)
		require.NoError(t, err)
		assert.Equal(t, 400.0, availability.Remaining)
	})

	t.Run("refuses and reports remaining when balance is short", func(t *testing.T) {
		err := s.DeductIfAvailable(company.ID, model.CategoryAGO, 500)
		require.Error(t, err)
		assert.Equal(t, KindInsufficientAllocation, ErrKind(err))
		assert.Equal(t, model.CategoryAGO, err.(*Error).Category)
		assert.Equal(t, 400.0, err.(*Error).Remaining)

		// balance untouched by the refusal
		availability, cerr := s.CheckAvailable(company.ID, model.CategoryAGO, 0)
		require.NoError(t, cerr)
		assert.Equal(t, 400.0, availability.Remaining)
	})

	t.Run("missing row refuses with zero remaining", func(t *testing.T) {
		err := s.DeductIfAvailable(999, model.CategoryAGO, 1)
		require.Error(t, err)
		assert.Equal(t, KindInsufficientAllocation, ErrKind(err))
		assert.Equal(t, 0.0, err.(*Error).Remaining)
	})
}

func TestDeductAndReturn(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")

	_, err := s.SetAllocation(company.ID, model.CategoryAGO, 1000)
	require.NoError(t, err)

	t.Run("deduct is unconditional", func(t *testing.T) {
		require.NoError(t, s.Deduct(company.ID, model.CategoryAGO, 1500))

		availability, err := s.CheckAvailable(company.ID, model.CategoryAGO, 0)
		require.NoError(t, err)
		assert.Equal(t, -500.0, availability.Remaining)
	})

	t.Run("return adds the volume back", func(t *testing.T) {
		require.NoError(t, s.Return(company.ID, model.CategoryAGO, 1500))

		availability, err := s.CheckAvailable(company.ID, model.CategoryAGO, 0)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, availability.Remaining)
	})

	t.Run("deduct on a missing row fails", func(t *testing.T) {
		err := s.Deduct(999, model.CategoryAGO, 1)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, ErrKind(err))
	})
}
