package locations_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/florist/internal/locations"
	"github.com/UnknownOlympus/florist/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIndex_Locate(t *testing.T) {
	table := locations.NewTable(sampleEntries(), "")
	index := locations.NewIndex(table, slog.Default())

	assert.Equal(t, 4, index.Size())

	t.Run("point inside one city", func(t *testing.T) {
		assert.Equal(t, []string{"Đà Nẵng"}, index.Locate(16.0544, 108.2022))
	})

	t.Run("point inside overlapping boxes", func(t *testing.T) {
		// Cần Thơ and An Giang share a strip around longitude 105.3-105.58.
		assert.Equal(t, []string{"An Giang", "Cần Thơ"}, index.Locate(10.2, 105.4))
	})

	t.Run("point outside every city", func(t *testing.T) {
		assert.Empty(t, index.Locate(0, 0))
	})
}

func TestIndex_SkipsMalformedBoxes(t *testing.T) {
	entries := map[string]models.Location{
		"Hà Nội":  {BBox: "20.56,105.29,21.39,106.02"},
		"Broken":  {BBox: "a,b,c,d"},
		"Flat":    {BBox: "10,10,10,11"},
		"Too few": {BBox: "1,2"},
		"NaN":     {BBox: "NaN,105,Inf,106"},
	}

	index := locations.NewIndex(locations.NewTable(entries, ""), slog.Default())

	assert.Equal(t, 1, index.Size())
	assert.Equal(t, []string{"Hà Nội"}, index.Locate(21.0285, 105.8542))
}
