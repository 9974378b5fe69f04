package model

import (
	"condo/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "amenities"
	EntityName = "amenity"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldImages      = "images"
	FieldIsActive    = "is_active"
)

// Amenity is a resort facility shown on the public site, such as the pool or the gym.
type Amenity struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Images      pq.StringArray `db:"images"`
	IsActive    bool           `db:"is_active"`
	model.Metadata
}
