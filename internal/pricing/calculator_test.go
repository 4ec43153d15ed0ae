package pricing

import (
	"testing"

	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bannerMaterial() *model.Material {
	return &model.Material{
		Name:      "Bâche 510g",
		Type:      "bache",
		UnitPrice: 10,
		Unit:      "m2",
		Options: model.OptionTable{
			"eyelets":    {Type: model.OptionPerUnit, Price: 0.5},
			"lamination": {Type: model.OptionPerSqm, Price: 2},
			"cutting":    {Type: model.OptionFixed, Price: 3},
			"folding":    {Type: model.OptionFixed, Price: 1, IsFree: true},
		},
	}
}

func TestCalculateMaterialPrice(t *testing.T) {
	assert.InDelta(t, 2.0, CalculateMaterialPrice(100, 200, 1), 1e-9)
	assert.InDelta(t, 15.0, CalculateMaterialPrice(100, 150, 10), 1e-9)
	assert.InDelta(t, 0.0, CalculateMaterialPrice(0, 150, 10), 1e-9)
}

func TestFindSuitableWidth(t *testing.T) {
	widths := []float64{100, 150, 200}

	t.Run("picks narrowest sufficient width", func(t *testing.T) {
		// 96+5=101: 100 is too narrow, 150 qualifies.
		assert.Equal(t, 150.0, FindSuitableWidth(96, widths))
	})

	t.Run("margin boundary is inclusive", func(t *testing.T) {
		// 95+5=100: the 100 roll qualifies exactly.
		assert.Equal(t, 100.0, FindSuitableWidth(95, widths))
	})

	t.Run("falls back to widest roll", func(t *testing.T) {
		assert.Equal(t, 200.0, FindSuitableWidth(300, widths))
	})

	t.Run("no widths", func(t *testing.T) {
		assert.Equal(t, 0.0, FindSuitableWidth(100, nil))
	})
}

func TestCalculateOrderPrice(t *testing.T) {
	mat := bannerMaterial()
	stock := Stock{Widths: []float64{110, 160}, Length: 50, AlertThreshold: 10}

	t.Run("base price from trimmed width", func(t *testing.T) {
		// Requested 100cm: 100+5=105, picks 160. Calculation width 155.
		res, err := CalculateOrderPrice(mat, stock, Dimensions{Width: 100, Length: 200}, 2, nil, false)
		require.NoError(t, err)

		// One unit: 155*200/10000 = 3.1 m²; unit price 31; base 62.
		assert.InDelta(t, 3.1, res.Area, 1e-9)
		assert.InDelta(t, 6.2, res.TotalArea, 1e-9)
		assert.InDelta(t, 31.0, res.UnitPrice, 1e-9)
		assert.InDelta(t, 62.0, res.BasePrice, 1e-9)
		assert.InDelta(t, 62.0, res.TotalPrice, 1e-9)
		assert.Equal(t, 160.0, res.SelectedWidth)
		// 200cm per unit, 2 units: 4 meters off the roll.
		assert.InDelta(t, 4.0, res.MaterialLengthUsed, 1e-9)
	})

	t.Run("options priced per type", func(t *testing.T) {
		opts := model.SelectedOptions{
			"eyelets":    {Quantity: 8},
			"lamination": {Quantity: 1},
			"cutting":    {Quantity: 1},
		}
		res, err := CalculateOrderPrice(mat, stock, Dimensions{Width: 100, Length: 200}, 2, opts, false)
		require.NoError(t, err)

		// Per unit: eyelets 0.5*8=4, lamination 2*3.1=6.2, cutting 3. ×2 units.
		assert.InDelta(t, (4+6.2+3)*2, res.OptionsCost, 1e-9)
		assert.InDelta(t, 62.0+(4+6.2+3)*2, res.TotalPrice, 1e-9)
		assert.Len(t, res.Breakdown, 3)
	})

	t.Run("free and unknown options are skipped", func(t *testing.T) {
		opts := model.SelectedOptions{
			"folding":  {Quantity: 1},
			"glitter?": {Quantity: 3},
		}
		res, err := CalculateOrderPrice(mat, stock, Dimensions{Width: 100, Length: 200}, 1, opts, false)
		require.NoError(t, err)
		assert.Zero(t, res.OptionsCost)
		assert.Empty(t, res.Breakdown)
	})

	t.Run("special order is free but still uses stock", func(t *testing.T) {
		opts := model.SelectedOptions{"eyelets": {Quantity: 4}}
		res, err := CalculateOrderPrice(mat, stock, Dimensions{Width: 100, Length: 200}, 2, opts, true)
		require.NoError(t, err)

		assert.Zero(t, res.TotalPrice)
		assert.True(t, res.Special)
		assert.InDelta(t, 62.0, res.BasePrice, 1e-9)
		assert.InDelta(t, 4.0, res.MaterialLengthUsed, 1e-9)
	})

	t.Run("special order still fails on insufficient stock", func(t *testing.T) {
		short := Stock{Widths: []float64{160}, Length: 3, AlertThreshold: 1}
		_, err := CalculateOrderPrice(mat, short, Dimensions{Width: 100, Length: 200}, 2, nil, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInsufficientStock))
	})

	t.Run("insufficient stock", func(t *testing.T) {
		short := Stock{Widths: []float64{160}, Length: 3.9, AlertThreshold: 1}
		_, err := CalculateOrderPrice(mat, short, Dimensions{Width: 100, Length: 200}, 2, nil, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInsufficientStock))
	})
}
