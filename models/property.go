package models

import (
	"time"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

const (
	PropertiesCollection = "properties"
	ImagesCollection     = "property_images"
	LocationsCollection  = "locations"
	TypesCollection      = "property_types"
	CountersCollection   = "counters"
)

const (
	TransactionSale  = "Sale"
	TransactionRent  = "Rent"
	TransactionLease = "Lease"
	TransactionPG    = "PG"
)

type Property struct {
	ID              string
	Title           string
	LocationID      string
	TypeID          string
	City            string
	Price           float64
	Bedrooms        int
	Bathrooms       int
	Sqft            int
	Description     string
	TransactionType string
	IsFeatured      bool
	IsActive        bool
	Amenities       []string
	Highlights      []string
	BrochureURL     string
	MapURL          string
	VideoURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func PropertyFromDoc(doc store.Document) Property {
	d := doc.Data
	return Property{
		ID:              doc.ID,
		Title:           docString(d, "title"),
		LocationID:      docString(d, "location_id"),
		TypeID:          docString(d, "type_id"),
		City:            docString(d, "city"),
		Price:           docNumber(d, "price"),
		Bedrooms:        docInt(d, "bedrooms"),
		Bathrooms:       docInt(d, "bathrooms"),
		Sqft:            docInt(d, "sqft"),
		Description:     docString(d, "description"),
		TransactionType: docString(d, "transaction_type"),
		IsFeatured:      docBool(d, "is_featured", false),
		IsActive:        docBool(d, "is_active", true),
		Amenities:       docStrings(d, "amenities"),
		Highlights:      docStrings(d, "highlights"),
		BrochureURL:     docString(d, "brochure_url"),
		MapURL:          docString(d, "map_url"),
		VideoURL:        docString(d, "video_url"),
		CreatedAt:       docTime(d, "created_at"),
		UpdatedAt:       docTime(d, "updated_at"),
	}
}

func (p Property) Doc() map[string]any {
	return map[string]any{
		"title":            p.Title,
		"location_id":      p.LocationID,
		"type_id":          p.TypeID,
		"city":             p.City,
		"price":            p.Price,
		"bedrooms":         p.Bedrooms,
		"bathrooms":        p.Bathrooms,
		"sqft":             p.Sqft,
		"description":      p.Description,
		"transaction_type": p.TransactionType,
		"is_featured":      p.IsFeatured,
		"is_active":        p.IsActive,
		"amenities":        p.Amenities,
		"highlights":       p.Highlights,
		"brochure_url":     p.BrochureURL,
		"map_url":          p.MapURL,
		"video_url":        p.VideoURL,
		"created_at":       p.CreatedAt,
		"updated_at":       p.UpdatedAt,
	}
}

type PropertyImage struct {
	ID           string
	PropertyID   string
	ImageData    string
	DisplayOrder int
	CreatedAt    time.Time
}

func ImageFromDoc(doc store.Document) PropertyImage {
	d := doc.Data
	return PropertyImage{
		ID:           doc.ID,
		PropertyID:   docString(d, "property_id"),
		ImageData:    docString(d, "image_data"),
		DisplayOrder: docInt(d, "display_order"),
		CreatedAt:    docTime(d, "created_at"),
	}
}

func (i PropertyImage) Doc() map[string]any {
	return map[string]any{
		"property_id":   i.PropertyID,
		"image_data":    i.ImageData,
		"display_order": i.DisplayOrder,
		"created_at":    i.CreatedAt,
	}
}
