package model

import "time"

// Item - inventory item as returned by the server.
type Item struct {
	ID            string    `json:"id"`
	CatalogName   string    `json:"catalog_name"`
	Rarity        string    `json:"rarity_tier"`
	BaseValue     string    `json:"base_value"`
	ColorName     string    `json:"color_name"`
	MutationNames []string  `json:"mutation_names"`
	AccountName   string    `json:"account_name"`
	TotalValue    string    `json:"total_value"`
	TotalShort    string    `json:"total_short"`
	TotalGrouped  string    `json:"total_grouped"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary - totals over a list of items.
type Summary struct {
	ItemCount       int               `json:"item_count"`
	GrandTotal      string            `json:"grand_total"`
	GrandTotalShort string            `json:"grand_total_short"`
	PerAccount      map[string]string `json:"per_account"`
}

// ItemList - response of the items listing.
type ItemList struct {
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}
