package domain

import "time"

// Product is a catalog entry.
type Product struct {
	ID            int64
	Name          string
	Price         float64
	Ingredients   string
	Description   string
	StockQuantity int
	ImageKey      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
