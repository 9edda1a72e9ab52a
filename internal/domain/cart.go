package domain

import "time"

// CartLine is a single product entry in a user's cart. There is at most one
// line per (UserID, ProductID) and Quantity is always at least 1.
type CartLine struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	Product   Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Favorite marks a product as favorited by a user.
type Favorite struct {
	ID        int64
	UserID    int64
	ProductID int64
	CreatedAt time.Time
}
