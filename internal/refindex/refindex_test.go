package refindex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeisey/phiti/internal/csvio"
	"github.com/jeisey/phiti/internal/domain"
)

func referenceRows() []csvio.Row {
	return []csvio.Row{
		{ColZip: "19104", ColArea: "University City"},
		{ColZip: "19106", ColArea: "Old City"},
		{ColZip: "19147", ColArea: "South Philadelphia"},
		{ColZip: "19148", ColArea: "South Philadelphia"},
	}
}

func TestBuildAndResolve(t *testing.T) {
	idx := New()
	idx.Build(referenceRows())

	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, "University City", idx.Resolve("19104"))
	assert.Equal(t, domain.AreaNotFound, idx.Resolve("19199"))
}

func TestBuildSkipsInvalidEntries(t *testing.T) {
	idx := New()
	idx.Build([]csvio.Row{
		{ColZip: "1910", ColArea: "Short Zip"},
		{ColZip: "19104", ColArea: ""},
		{ColZip: "19106", ColArea: domain.NotAvailable},
		{ColZip: "19147", ColArea: "South Philadelphia"},
	})

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, domain.AreaNotFound, idx.Resolve("19104"))
	assert.Equal(t, "South Philadelphia", idx.Resolve("19147"))
}

func TestRebuildReplaces(t *testing.T) {
	idx := New()
	idx.Build(referenceRows())
	idx.Build([]csvio.Row{{ColZip: "19102", ColArea: "Center City"}})

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, domain.AreaNotFound, idx.Resolve("19104"))
}

func TestZipsForArea(t *testing.T) {
	idx := New()
	idx.Build(referenceRows())

	assert.Equal(t, []string{"19147", "19148"}, idx.ZipsForArea("South Philadelphia"))
	assert.Empty(t, idx.ZipsForArea("Nowhere"))
}

func TestApply(t *testing.T) {
	idx := New()
	idx.Build(referenceRows())

	records := []*domain.Record{
		{ZipCode: "19104", Area: domain.AreaUnresolved},
		{ZipCode: "19199", Area: domain.AreaUnresolved},
	}
	idx.Apply(records)

	assert.Equal(t, "University City", records[0].Area)
	assert.Equal(t, domain.AreaNotFound, records[1].Area)
}

func TestZeroIndexResolvesSentinel(t *testing.T) {
	assert.Equal(t, domain.AreaNotFound, New().Resolve("19104"))
}
