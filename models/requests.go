package models

type CreatePropertyRequest struct {
	Title           string   `json:"title" validate:"required"`
	Type            string   `json:"type" validate:"required"`
	Area            string   `json:"area" validate:"required"`
	City            string   `json:"city"`
	Price           float64  `json:"price" validate:"required,gte=0"`
	Bedrooms        int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms       int      `json:"bathrooms" validate:"gte=0"`
	Sqft            int      `json:"sqft" validate:"gte=0"`
	Description     string   `json:"description"`
	TransactionType string   `json:"transactionType"`
	IsFeatured      bool     `json:"isFeatured"`
	IsActive        *bool    `json:"isActive"`
	Amenities       []string `json:"amenities"`
	Highlights      []string `json:"highlights"`
	BrochureURL     string   `json:"brochureUrl"`
	MapURL          string   `json:"mapUrl"`
	VideoURL        string   `json:"videoUrl"`
	Images          []string `json:"images"`
}

// Pointer fields distinguish "not supplied" from zero values; only supplied
// fields are written on update.
type UpdatePropertyRequest struct {
	Title           *string   `json:"title"`
	Type            *string   `json:"type"`
	Area            *string   `json:"area"`
	City            *string   `json:"city"`
	Price           *float64  `json:"price"`
	Bedrooms        *int      `json:"bedrooms"`
	Bathrooms       *int      `json:"bathrooms"`
	Sqft            *int      `json:"sqft"`
	Description     *string   `json:"description"`
	TransactionType *string   `json:"transactionType"`
	IsFeatured      *bool     `json:"isFeatured"`
	IsActive        *bool     `json:"isActive"`
	Amenities       *[]string `json:"amenities"`
	Highlights      *[]string `json:"highlights"`
	BrochureURL     *string   `json:"brochureUrl"`
	MapURL          *string   `json:"mapUrl"`
	VideoURL        *string   `json:"videoUrl"`
	Images          *[]string `json:"images"`
}

type LocationRequest struct {
	Name string `json:"name" validate:"required"`
	City string `json:"city" validate:"required"`
}

type TypeRequest struct {
	Name string `json:"name" validate:"required"`
}
