package komerce

import "encoding/json"

// Response envelope shared by every Komerce endpoint.
type providerMeta struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Status  string `json:"status"` // "success" | "error"
}

type providerEnvelope struct {
	Meta providerMeta `json:"meta"`
}

// CostResult is one courier service quote, already in the shape callers
// consume and the cache stores.
type CostResult struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	ETD         string `json:"etd"`
}

type providerCostResponse struct {
	Meta providerMeta `json:"meta"`
	Data []CostResult `json:"data"`
}

// Region is one administrative geography row (province, city, district or
// subdistrict), normalized from the provider's inconsistent field names.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Some destination endpoints label the display name "name", others "label".
type providerRegionRow struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Label string      `json:"label"`
}

type providerRegionResponse struct {
	Meta providerMeta        `json:"meta"`
	Data []providerRegionRow `json:"data"`
}

func (r providerRegionRow) normalize() Region {
	name := r.Name
	if name == "" {
		name = r.Label
	}
	return Region{ID: r.ID.String(), Name: name}
}
