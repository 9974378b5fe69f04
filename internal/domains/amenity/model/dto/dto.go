package dto

import (
	"mime/multipart"
	"time"

	"condo/internal/domains/amenity/model"
	"condo/shared"
	gDto "condo/shared/dto"
	gModel "condo/shared/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateAmenityRequest struct {
	Name        string   `json:"name"        validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Images      []string `json:"images"      validate:"omitempty,dive,url"`
	IsActive    *bool    `json:"is_active"`
}

func (c *CreateAmenityRequest) ToModel(user string, now time.Time) model.Amenity {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.Amenity{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Images:      pq.StringArray(c.Images),
		IsActive:    active,
		Metadata:    gModel.NewMetadata(user, now),
	}
}

type UpdateAmenityRequest struct {
	Name        string         `db:"name"        json:"name"        validate:"omitempty,min=2,max=100"`
	Description *string        `db:"description" json:"description" validate:"omitempty,max=2000"`
	Images      pq.StringArray `db:"images"      json:"images"      validate:"omitempty,dive,url"`
	IsActive    *bool          `db:"is_active"   json:"is_active"`
}

type AmenityResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	IsActive    bool     `json:"is_active"`
	gDto.Metadata
}

func (r *AmenityResponse) FromModel(model model.Amenity) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Images = append([]string{}, model.Images...)
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetAmenitiesResponse struct {
	Amenities []AmenityResponse `json:"amenities"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetAmenitiesResponse) FromModels(models []model.Amenity, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Amenities = make([]AmenityResponse, len(models))
	for i, m := range models {
		r.Amenities[i].FromModel(m)
	}
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile multipart.File        `json:"-"`
}

type UploadImageResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

func (r *UploadImageResponse) FromModel(url, fileName string) {
	r.URL = url
	r.FileName = fileName
}

type DeleteImagesRequest struct {
	ImageURLs []string `json:"image_urls" validate:"required,min=1,dive,url"`
}
