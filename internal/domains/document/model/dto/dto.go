package dto

import "mime/multipart"

const (
	KindIdentity  = "identity"
	KindCompanion = "companion"
)

// UploadRequest carries an identity document image attached to a booking or one of its companions.
type UploadRequest struct {
	Kind     string                `json:"kind"     validate:"required,oneof=identity companion"`
	File     *multipart.FileHeader `json:"file"     swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp application/pdf,maxfilesize=5"`
	FileData multipart.File        `json:"-"`
}

type UploadResponse struct {
	Reference string `json:"reference"`
	FileName  string `json:"file_name"`
}
