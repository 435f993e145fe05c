package model

// Profile - full profile snapshot.
type Profile struct {
	Name     string   `json:"name"`
	Version  int64    `json:"version"`
	Accounts []string `json:"accounts"`
	Items    []Item   `json:"items"`
	Summary  Summary  `json:"summary"`
}

// CatalogEntry - one catalog record; multiplier is set for colors and mutations.
type CatalogEntry struct {
	Name       string `json:"name"`
	Rarity     string `json:"rarity,omitempty"`
	BaseValue  string `json:"base_value,omitempty"`
	Multiplier string `json:"multiplier,omitempty"`
}

// Catalog - reference data served by /api/catalog.
type Catalog struct {
	Policy    string         `json:"policy"`
	Items     []CatalogEntry `json:"items"`
	Colors    []CatalogEntry `json:"colors"`
	Mutations []CatalogEntry `json:"mutations"`
}
