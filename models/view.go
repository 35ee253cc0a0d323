package models

import "time"

// PropertyView is the public projection of a property. List views carry at
// most the cover image; detail views carry the full ordered set.
type PropertyView struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Area            string    `json:"area"`
	City            string    `json:"city"`
	Type            string    `json:"type"`
	Price           float64   `json:"price"`
	Bedrooms        int       `json:"bedrooms"`
	Bathrooms       int       `json:"bathrooms"`
	Sqft            int       `json:"sqft"`
	Description     string    `json:"description"`
	TransactionType string    `json:"transactionType"`
	IsFeatured      bool      `json:"isFeatured"`
	IsActive        bool      `json:"isActive"`
	Amenities       []string  `json:"amenities"`
	Highlights      []string  `json:"highlights"`
	BrochureURL     string    `json:"brochureUrl"`
	MapURL          string    `json:"mapUrl"`
	VideoURL        string    `json:"videoUrl"`
	Images          []string  `json:"images"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type PropertyListResponse struct {
	Success    bool              `json:"success"`
	Properties []PropertyView    `json:"properties"`
	Pagination Pagination        `json:"pagination"`
	Filters    map[string]string `json:"filters"`
}
