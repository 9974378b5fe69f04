package model

import (
	"condo/shared/model"
)

const (
	TableName  = "site_config"
	EntityName = "site_config"

	FieldID = "id"
)

// SingletonID is the key of the only row the table holds.
const SingletonID = "default"

const (
	DefaultFeeSmallRoom = 500
	DefaultFeeLargeRoom = 1000
)

type SiteConfig struct {
	ID           string  `db:"id"`
	FeeSmallRoom float64 `db:"fee_small_room"`
	FeeLargeRoom float64 `db:"fee_large_room"`
	PropertyName string  `db:"property_name"`
	OwnerContact string  `db:"owner_contact"`
	LegalTerms   string  `db:"legal_terms"`
	LegalPrivacy string  `db:"legal_privacy"`
	model.Metadata
}

func Default() SiteConfig {
	return SiteConfig{
		ID:           SingletonID,
		FeeSmallRoom: DefaultFeeSmallRoom,
		FeeLargeRoom: DefaultFeeLargeRoom,
	}
}

// LateCheckoutFee picks the fee tier for a room size.
func (c SiteConfig) LateCheckoutFee(small bool) float64 {
	if small {
		return c.FeeSmallRoom
	}

	return c.FeeLargeRoom
}
