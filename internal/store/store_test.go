package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"permit-service/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Company{},
		&model.Allocation{},
		&model.Truck{},
		&model.AuditLog{},
	)
	require.NoError(t, err)

	return New(db)
}

// seedCompany creates a tenant through the store so it gets its zeroed
// allocation rows, the same way the registry provisions them.
func seedCompany(t *testing.T, s *Store, name, slug string) *model.Company {
	t.Helper()
	company, err := s.CreateCompany(name, slug)
	require.NoError(t, err)
	return company
}

func seedTruck(t *testing.T, s *Store, companyID uint, product string, quantity float64) *model.Truck {
	t.Helper()
	truck, err := s.InsertTruck(TruckFields{
		TruckTrailer: "T-001/TR-001",
		Product:      product,
		Transporter:  "Acme Haulage",
		Quantity:     quantity,
		DriverName:   "J. Doe",
	}, companyID)
	require.NoError(t, err)
	return truck
}
