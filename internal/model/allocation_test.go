package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCategory(t *testing.T) {
	cases := []struct {
		product string
		want    string
	}{
		{"AGO", CategoryAGO},
		{"ago", CategoryAGO},
		{"diesel", CategoryAGO},
		{"DIESEL", CategoryAGO},
		{" Diesel ", CategoryAGO},
		{"PMS", CategoryPMS},
		{"Gasoline", CategoryPMS},
		{"petrol", CategoryPMS},
		{"", CategoryPMS},
		{"kerosene", CategoryPMS},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveCategory(tc.product), "product %q", tc.product)
	}
}

func TestNormalizeQuantity(t *testing.T) {
	t.Run("values under 100 are read as thousands", func(t *testing.T) {
		assert.Equal(t, 50000.0, NormalizeQuantity(50))
		assert.Equal(t, 80000.0, NormalizeQuantity(80))
		assert.Equal(t, 99500.0, NormalizeQuantity(99.5))
	})

	t.Run("values at or above 100 pass through", func(t *testing.T) {
		assert.Equal(t, 100.0, NormalizeQuantity(100))
		assert.Equal(t, 36000.0, NormalizeQuantity(36000))
	})
}

func TestTruckLoadedDerivation(t *testing.T) {
	truck := Truck{Status: StatusLoaded}
	assert.NoError(t, truck.AfterFind(nil))
	assert.True(t, truck.Loaded)

	truck = Truck{Status: StatusGenerated}
	assert.NoError(t, truck.AfterFind(nil))
	assert.False(t, truck.Loaded)
}

func TestTruckCategory(t *testing.T) {
	assert.Equal(t, CategoryAGO, (&Truck{Product: "Diesel"}).Category())
	assert.Equal(t, CategoryPMS, (&Truck{Product: "Gasoline"}).Category())
}
