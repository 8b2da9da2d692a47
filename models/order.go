// Package models defines data structures shared across the pipeline.
package models

import "time"

// OrderRecord is the normalized triple extracted from one input item.
// Quantity stays a string until aggregation; a non-numeric value is
// carried through and defaulted downstream.
type OrderRecord struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
}

// Rating is the nested rating block of a catalog response.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product holds the catalog metadata for one product id.
type Product struct {
	ID       string  `json:"-"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Rating   Rating  `json:"rating"`
}

// CatalogIndex maps product ids to resolved metadata. A missing key means
// enrichment failed or was skipped for that id.
type CatalogIndex map[string]*Product

// EnrichedRow is one order record joined with its product metadata plus
// the derived total price.
type EnrichedRow struct {
	OrderID     string
	ProductID   string
	Title       string
	Category    string
	Quantity    int
	Price       float64
	RatingRate  float64
	RatingCount int
	TotalPrice  float64
}

// RunResult holds the counters for one pipeline run.
type RunResult struct {
	StartTime        time.Time
	EndTime          time.Time
	FilesSeen        int
	TextParsed       int
	TextSkipped      int
	CSVRows          int
	DistinctProducts int
	Resolved         int
	RowsEmitted      int
	FilesArchived    int
	ArchiveFailures  int
	SheetName        string
}
