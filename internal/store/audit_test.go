package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-service/internal/model"
)

func TestAuditLogs(t *testing.T) {
	s := setupTestStore(t)
	company := seedCompany(t, s, "Delta Energies", "delta")
	other := seedCompany(t, s, "Other", "other")

	s.RecordAudit(model.ActionCreateCompany, "company", &company.ID, "global entry", 0)
	s.RecordAudit(model.ActionImport, "truck", nil, "mine", company.ID)
	s.RecordAudit(model.ActionImport, "truck", nil, "theirs", other.ID)
	s.RecordAudit(model.ActionClearAll, "truck", nil, "mine too", company.ID)

	t.Run("company scope includes its own and global entries", func(t *testing.T) {
		entries, err := s.AuditLogs(company.ID, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		// most recent first
		assert.Equal(t, "mine too", entries[0].Details)
		assert.Equal(t, "mine", entries[1].Details)
		assert.Equal(t, "global entry", entries[2].Details)
	})

	t.Run("unscoped list sees everything", func(t *testing.T) {
		entries, err := s.AuditLogs(0, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 4)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		entries, err := s.AuditLogs(0, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "mine too", entries[0].Details)
	})

	t.Run("global entries carry no company", func(t *testing.T) {
		entries, err := s.AuditLogs(company.ID, 0)
		require.NoError(t, err)
		assert.Nil(t, entries[2].CompanyID)
		require.NotNil(t, entries[1].CompanyID)
		assert.Equal(t, company.ID, *entries[1].CompanyID)
	})
}
