package dto

import (
	"condo/internal/domains/siteconfig/model"
)

type SiteConfigResponse struct {
	FeeSmallRoom float64 `json:"fee_small_room"`
	FeeLargeRoom float64 `json:"fee_large_room"`
	PropertyName string  `json:"property_name"`
	OwnerContact string  `json:"owner_contact"`
	LegalTerms   string  `json:"legal_terms"`
	LegalPrivacy string  `json:"legal_privacy"`
}

func (r *SiteConfigResponse) FromModel(model model.SiteConfig) {
	r.FeeSmallRoom = model.FeeSmallRoom
	r.FeeLargeRoom = model.FeeLargeRoom
	r.PropertyName = model.PropertyName
	r.OwnerContact = model.OwnerContact
	r.LegalTerms = model.LegalTerms
	r.LegalPrivacy = model.LegalPrivacy
}

type UpdateSiteConfigRequest struct {
	FeeSmallRoom *float64 `db:"fee_small_room" json:"fee_small_room" validate:"omitempty,min=0"`
	FeeLargeRoom *float64 `db:"fee_large_room" json:"fee_large_room" validate:"omitempty,min=0"`
	PropertyName *string  `db:"property_name"  json:"property_name"  validate:"omitempty,max=150"`
	OwnerContact *string  `db:"owner_contact"  json:"owner_contact"  validate:"omitempty,max=255"`
	LegalTerms   *string  `db:"legal_terms"    json:"legal_terms"`
	LegalPrivacy *string  `db:"legal_privacy"  json:"legal_privacy"`
}

// Apply overlays the provided fields on current.
func (u *UpdateSiteConfigRequest) Apply(current model.SiteConfig) model.SiteConfig {
	if u.FeeSmallRoom != nil {
		current.FeeSmallRoom = *u.FeeSmallRoom
	}

	if u.FeeLargeRoom != nil {
		current.FeeLargeRoom = *u.FeeLargeRoom
	}

	if u.PropertyName != nil {
		current.PropertyName = *u.PropertyName
	}

	if u.OwnerContact != nil {
		current.OwnerContact = *u.OwnerContact
	}

	if u.LegalTerms != nil {
		current.LegalTerms = *u.LegalTerms
	}

	if u.LegalPrivacy != nil {
		current.LegalPrivacy = *u.LegalPrivacy
	}

	return current
}
