package domain

import "time"

type Product struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner is the public projection of the user owning a product.
type Owner struct {
	Name  string
	Email string
}

type ProductWithOwner struct {
	Product
	Owner Owner
}
