package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Document=MockDocumentService

import (
	"context"
	"fmt"
	"path"

	"condo/infras/otel"
	"condo/infras/s3"
	"condo/internal/domains/document/model/dto"
	"condo/shared/constant"
	"condo/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const documentDirectory = "documents"

type Document interface {
	Upload(ctx context.Context, req dto.UploadRequest) (dto.UploadResponse, error)
}

type serviceImpl struct {
	s3   s3.S3
	otel otel.Otel
}

func New(s3 s3.S3, otel otel.Otel) Document {
	return &serviceImpl{
		s3:   s3,
		otel: otel,
	}
}

// Upload stores the file under documents/<kind>/<user id>/ with a random object name and returns its URL as
// the reference a booking request quotes back.
func (s *serviceImpl) Upload(ctx context.Context, req dto.UploadRequest) (res dto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".document.Upload")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("login required")
	}

	if req.File == nil || req.FileData == nil {
		return res, failure.Validation("file is required")
	}

	directory := path.Join(documentDirectory, req.Kind, userID)
	fileName := uuid.NewString() + path.Ext(req.File.Filename)

	url, err := s.s3.UploadFile(ctx, directory, fileName, req.FileData, req.File)
	if err != nil {
		log.Error().Err(err).Str("kind", req.Kind).Msg("failed to upload document")

		return res, fmt.Errorf("failed to upload document: %w", err)
	}

	res.Reference = url
	res.FileName = req.File.Filename

	return res, nil
}
