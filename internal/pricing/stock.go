package pricing

import "fmt"

// StockCheckResult is advisory: it reflects the snapshot it was computed
// from, nothing more.
type StockCheckResult struct {
	Available          bool    `json:"available"`
	Message            string  `json:"message,omitempty"`
	MaterialLengthUsed float64 `json:"material_length_used"`
	RemainingStock     float64 `json:"remaining_stock"`
}

// ValidateStock checks whether a run of quantity pieces of requestedLength
// (cm) fits in the stock snapshot. Remaining stock exactly at the alert
// threshold does not warn; only strictly below does.
func ValidateStock(requestedLength float64, quantity int, stock Stock) StockCheckResult {
	used := (requestedLength / 100) * float64(quantity)
	remaining := stock.Length - used

	if used > stock.Length {
		return StockCheckResult{
			Available: false,
			Message: fmt.Sprintf("insufficient stock: %.2f m required, %.2f m available (short %.2f m)",
				used, stock.Length, used-stock.Length),
			MaterialLengthUsed: used,
			RemainingStock:     remaining,
		}
	}

	result := StockCheckResult{
		Available:          true,
		MaterialLengthUsed: used,
		RemainingStock:     remaining,
	}
	if remaining < stock.AlertThreshold {
		result.Message = fmt.Sprintf("low stock: %.2f m will remain, below alert threshold of %.2f m",
			remaining, stock.AlertThreshold)
	}
	return result
}
