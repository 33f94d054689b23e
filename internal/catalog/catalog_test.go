package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicesReturnsBookableMenu(t *testing.T) {
	services := Services()
	require.Len(t, services, 8)
	assert.Equal(t, "Swedish Massage", services[0].Name)
	assert.Equal(t, "Prenatal Massage", services[7].Name)
}

func TestEntriesOrderAndShape(t *testing.T) {
	all := Entries()
	require.Len(t, all, 10)
	assert.Equal(t, "Reflexology", all[8].Name)
	assert.Equal(t, "Full Body Relaxation", all[9].Name)

	for _, e := range all {
		assert.GreaterOrEqual(t, e.Price, 0.0, e.Name)
		assert.Positive(t, e.Duration, e.Name)
		assert.NotEmpty(t, e.Description, e.Name)
	}
}

func TestFind(t *testing.T) {
	e, ok := Find("Thai Massage")
	require.True(t, ok)
	assert.Equal(t, 100.0, e.Price)
	assert.Equal(t, 60, e.Duration)

	_, ok = Find("Shiatsu")
	assert.False(t, ok)
}

func TestEntriesReturnsCopy(t *testing.T) {
	all := Entries()
	all[0].Price = 1
	assert.Equal(t, 85.0, Entries()[0].Price)
}
