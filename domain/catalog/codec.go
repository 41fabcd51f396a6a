package catalog

import (
	"encoding/json"
	"fmt"
)

// DecodeProducts parses a persisted product list.
func DecodeProducts(data []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		return nil, fmt.Errorf("decode products: not a list")
	}
	seen := make(map[int]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("decode products: duplicate id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return products, nil
}

// DecodeSettings parses persisted settings over the defaults.
// Fields absent from data, at the top level or inside deliveryRates,
// keep their default value. Unknown keys are dropped.
func DecodeSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
