package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-service/internal/model"
	"permit-service/pkg/database"
)

func TestCreateCompany(t *testing.T) {
	s := setupTestStore(t)

	t.Run("creates the tenant with zeroed allocations", func(t *testing.T) {
		company, err := s.CreateCompany("Delta Energies", "delta")
		require.NoError(t, err)
		assert.False(t, company.IsAdmin)

		allocations, err := s.Allocations(company.ID)
		require.NoError(t, err)
		require.Len(t, allocations, 2)
		for _, allocation := range allocations {
			assert.Equal(t, 0.0, allocation.InitialVolume)
			assert.Equal(t, 0.0, allocation.RemainingVolume)
			assert.Contains(t, model.Categories, allocation.ProductType)
		}
	})

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		_, err := s.CreateCompany("Delta Two", "delta")
		require.Error(t, err)
		assert.Equal(t, KindConflict, ErrKind(err))
	})

	t.Run("blank fields are invalid", func(t *testing.T) {
		_, err := s.CreateCompany("  ", "x")
		assert.Equal(t, KindInvalidInput, ErrKind(err))
		_, err = s.CreateCompany("X", "")
		assert.Equal(t, KindInvalidInput, ErrKind(err))
	})
}

func TestUpdateCompany(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")
	seedCompany(t, s, "Other", "other")

	t.Run("renames and re-slugs", func(t *testing.T) {
		updated, err := s.UpdateCompany(company.ID, "Delta Energy Ltd", "delta-energy")
		require.NoError(t, err)
		assert.Equal(t, "Delta Energy Ltd", updated.Name)
		assert.Equal(t, "delta-energy", updated.Slug)
	})

	t.Run("taking another tenant's slug is a conflict", func(t *testing.T) {
		_, err := s.UpdateCompany(company.ID, "Delta", "other")
		assert.Equal(t, KindConflict, ErrKind(err))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := s.UpdateCompany(9999, "X", "x")
		assert.Equal(t, KindNotFound, ErrKind(err))
	})
}

func TestCompanyLookups(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, database.SeedAdminCompany(s.db, "Admin", "admin"))
	seedCompany(t, s, "Zulu Fuels", "zulu")
	seedCompany(t, s, "Alpha Oil", "alpha")

	t.Run("list puts the admin first, then alphabetical", func(t *testing.T) {
		companies, err := s.Companies()
		require.NoError(t, err)
		require.Len(t, companies, 3)
		assert.True(t, companies[0].IsAdmin)
		assert.Equal(t, "Alpha Oil", companies[1].Name)
		assert.Equal(t, "Zulu Fuels", companies[2].Name)
	})

	t.Run("lookup by slug", func(t *testing.T) {
		company, err := s.CompanyBySlug("zulu")
		require.NoError(t, err)
		assert.Equal(t, "Zulu Fuels", company.Name)

		_, err = s.CompanyBySlug("missing")
		assert.Equal(t, KindNotFound, ErrKind(err))
	})

	t.Run("lookup by id", func(t *testing.T) {
		_, err := s.CompanyByID(9999)
		assert.Equal(t, KindNotFound, ErrKind(err))
	})
}

func TestDeleteCompanyCascades(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, database.SeedAdminCompany(s.db, "Admin", "admin"))
	admin, err := s.CompanyBySlug("admin")
	require.NoError(t, err)

	company := seedCompany(t, s, "Delta Energies", "delta")
	_, err = s.SetAllocation(company.ID, model.CategoryAGO, 1000)
	require.NoError(t, err)
	seedTruck(t, s, company.ID, "AGO", 500)
	s.RecordAudit(model.ActionImport, "truck", nil, "seed entry", company.ID)

	t.Run("cascade removes trucks, allocations and audit entries", func(t *testing.T) {
		require.NoError(t, s.DeleteCompany(company.ID))

		trucks, err := s.Trucks(company.ID)
		require.NoError(t, err)
		assert.Empty(t, trucks)

		allocations, err := s.Allocations(company.ID)
		require.NoError(t, err)
		assert.Empty(t, allocations)

		var auditCount int64
		require.NoError(t, s.db.Model(&model.AuditLog{}).Where("company_id = ?", company.ID).Count(&auditCount).Error)
		assert.Zero(t, auditCount)

		_, err = s.CompanyByID(company.ID)
		assert.Equal(t, KindNotFound, ErrKind(err))
	})

	t.Run("deleting the admin company is a silent no-op", func(t *testing.T) {
		require.NoError(t, s.DeleteCompany(admin.ID))
		_, err := s.CompanyByID(admin.ID)
		assert.NoError(t, err)
	})

	t.Run("deleting an unknown company is not found", func(t *testing.T) {
		err := s.DeleteCompany(9999)
		assert.Equal(t, KindNotFound, ErrKind(err))
	})
}
