package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-service/internal/model"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")
	_, err := s.SetAllocation(company.ID, model.CategoryAGO, 1000)
	require.NoError(t, err)

	truck := seedTruck(t, s, company.ID, "AGO", 600)
	_, err = s.GeneratePermit(truck.ID, "P-100", "2024-03-01 10:00:00", 0)
	require.NoError(t, err)
	seedTruck(t, s, company.ID, "PMS", 2000)

	snapshot, err := s.TakeSnapshot(company.ID)
	require.NoError(t, err)
	require.Len(t, snapshot.Trucks, 2)
	require.Len(t, snapshot.Allocations, 2)

	// mutate state after the snapshot
	_, err = s.Cancel(truck.ID)
	require.NoError(t, err)
	require.NoError(t, s.ClearTrucks(company.ID))

	require.NoError(t, s.RestoreSnapshot(company.ID, snapshot))

	t.Run("trucks come back with their stored lifecycle fields", func(t *testing.T) {
		trucks, err := s.Trucks(company.ID)
		require.NoError(t, err)
		require.Len(t, trucks, 2)

		assert.Equal(t, model.StatusGenerated, trucks[0].Status)
		assert.Equal(t, "P-100", trucks[0].PermitNo)
		assert.Equal(t, "2024-03-01 10:00:00", trucks[0].PermitDate)
		assert.Equal(t, 600.0, trucks[0].Quantity)
		assert.Equal(t, model.StatusPending, trucks[1].Status)
	})

	t.Run("allocation balances match snapshot time", func(t *testing.T) {
		assert.Equal(t, 400.0, remaining(t, s, company.ID, model.CategoryAGO))
	})
}

func TestRestoreSnapshotSkipsMissingAllocations(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")

	// drop the PMS row so the snapshot has a category the destination lacks
	require.NoError(t, s.db.Where("company_id = ? AND product_type = ?", company.ID, model.CategoryPMS).
		Delete(&model.Allocation{}).Error)

	snapshot := &Snapshot{
		Trucks: []model.Truck{},
		Allocations: []model.Allocation{
			{CompanyID: company.ID, ProductType: model.CategoryAGO, InitialVolume: 500, RemainingVolume: 200},
			{CompanyID: company.ID, ProductType: model.CategoryPMS, InitialVolume: 900, RemainingVolume: 900},
		},
	}
	require.NoError(t, s.RestoreSnapshot(company.ID, snapshot))

	allocations, err := s.Allocations(company.ID)
	require.NoError(t, err)
	require.Len(t, allocations, 1, "missing categories are skipped, not created")
	assert.Equal(t, model.CategoryAGO, allocations[0].ProductType)
	assert.Equal(t, 500.0, allocations[0].InitialVolume)
	assert.Equal(t, 200.0, allocations[0].RemainingVolume)
}

func TestRestoreSnapshotRequiresPayload(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")

	err := s.RestoreSnapshot(company.ID, nil)
	assert.Equal(t, KindInvalidInput, ErrKind(err))
}
