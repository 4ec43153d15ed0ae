package pricing

import (
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/pkg/errors"
)

// WidthMarginCm is the clearance required between the requested print width
// and the roll width, and also the trim lost on the selected roll.
const WidthMarginCm = 5.0

var ErrInsufficientStock = errors.New("insufficient material stock")

// Dimensions of one printed unit, in centimeters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// Stock is a point-in-time snapshot of what is on the shelf for a material:
// the roll widths available (cm, ascending) and the total usable length (m).
// It carries no lock; two concurrent quotes can both pass against the same
// snapshot, so callers must re-validate before committing an order.
type Stock struct {
	Widths         []float64 `json:"widths"`
	Length         float64   `json:"length"`
	AlertThreshold float64   `json:"alert_threshold"`
}

type OptionCost struct {
	Name     string           `json:"name"`
	Type     model.OptionType `json:"type"`
	UnitCost float64          `json:"unit_cost"` // cost per printed unit
	Quantity float64          `json:"quantity"`  // selected option quantity
	Total    float64          `json:"total"`
}

type PriceResult struct {
	TotalPrice         float64      `json:"total_price"`
	UnitPrice          float64      `json:"unit_price"`
	Area               float64      `json:"area"`       // m² for one unit
	TotalArea          float64      `json:"total_area"` // m² for the whole run
	SelectedWidth      float64      `json:"selected_width"`
	MaterialLengthUsed float64      `json:"material_length_used"` // meters
	BasePrice          float64      `json:"base_price"`
	OptionsCost        float64      `json:"options_cost"`
	Breakdown          []OptionCost `json:"breakdown"`
	Special            bool         `json:"special"`
}

// CalculateMaterialPrice prices a raw rectangle of material: dimensions in
// cm, unit price per m².
func CalculateMaterialPrice(width, length, unitPrice float64) float64 {
	return (width * length / 10000) * unitPrice
}

// FindSuitableWidth picks the roll width for a requested print width: the
// first width in iteration order that leaves the margin, or the widest roll
// when none does. Callers pass widths sorted ascending, which makes "first"
// mean "narrowest sufficient".
func FindSuitableWidth(requestedWidth float64, widths []float64) float64 {
	if len(widths) == 0 {
		return 0
	}
	max := widths[0]
	for _, w := range widths {
		if w >= requestedWidth+WidthMarginCm {
			return w
		}
		if w > max {
			max = w
		}
	}
	return max
}

// CalculateOrderPrice produces the full quote for an order line. It does not
// validate its inputs; negative or zero dimensions are the caller's problem.
// Special (DG / house) orders are billed at zero but still consume material,
// so the stock check applies to them too.
func CalculateOrderPrice(
	material *model.Material,
	stock Stock,
	dims Dimensions,
	quantity int,
	options model.SelectedOptions,
	specialOrder bool,
) (*PriceResult, error) {
	selectedWidth := FindSuitableWidth(dims.Width, stock.Widths)
	calculationWidth := selectedWidth - WidthMarginCm

	area := calculationWidth * dims.Length / 10000
	totalArea := area * float64(quantity)

	materialLengthUsed := (dims.Length / 100) * float64(quantity)
	if materialLengthUsed > stock.Length {
		return nil, errors.Wrapf(ErrInsufficientStock,
			"need %.2f m of %s, %.2f m in stock", materialLengthUsed, material.Name, stock.Length)
	}

	unitPrice := area * material.UnitPrice
	basePrice := unitPrice * float64(quantity)

	optionsCost := 0.0
	var breakdown []OptionCost
	for name, sel := range options {
		opt, ok := material.Options[name]
		if !ok || opt.IsFree {
			continue
		}

		var unitCost float64
		switch opt.Type {
		case model.OptionFixed:
			unitCost = opt.Price
		case model.OptionPerSqm:
			unitCost = opt.Price * area
		case model.OptionPerUnit:
			unitCost = opt.Price * sel.Quantity
		}

		total := unitCost * float64(quantity)
		optionsCost += total
		breakdown = append(breakdown, OptionCost{
			Name:     name,
			Type:     opt.Type,
			UnitCost: unitCost,
			Quantity: sel.Quantity,
			Total:    total,
		})
	}

	totalPrice := basePrice + optionsCost
	if specialOrder {
		totalPrice = 0
	}

	return &PriceResult{
		TotalPrice:         totalPrice,
		UnitPrice:          unitPrice,
		Area:               area,
		TotalArea:          totalArea,
		SelectedWidth:      selectedWidth,
		MaterialLengthUsed: materialLengthUsed,
		BasePrice:          basePrice,
		OptionsCost:        optionsCost,
		Breakdown:          breakdown,
		Special:            specialOrder,
	}, nil
}
