package domain

// Product is a catalog item as served by the products endpoint. The core
// never writes products; the catalog owns them.
type Product struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	ImageURL         string  `json:"image_url"`
	Weight           string  `json:"weight"`
	AvailabilityDays string  `json:"availability_days"`
	ForVegans        string  `json:"for_vegans"`
	ShortDescription string  `json:"short_description"`
	Ingredients      string  `json:"ingredients"`
	Calories         string  `json:"calories"`
	EnergyValue      string  `json:"energy_value"`
	Category         string  `json:"category"`
}

// HasSpecialTerms reports whether the product carries non-default availability
// conditions that must be surfaced at checkout.
func (p Product) HasSpecialTerms() bool {
	return p.AvailabilityDays != "" && p.AvailabilityDays != "N/A"
}
