package document

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/document/model/dto"
	"condo/internal/domains/document/service"
	"condo/shared/constant"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const formKind = "kind"

type Handler struct {
	service service.Document
	otel    otel.Otel
}

func New(service service.Document, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/documents", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UploadDocument)
	})
}

// UploadDocument stores an identity document and returns its reference for a booking request.
// @Summary Upload an identity document
// @Tags Document
// @Accept multipart/form-data
// @Produce json
// @Param kind formData string true "identity or companion"
// @Param file formData file true "Image or PDF, at most 5MB"
// @Success 201 {object} response.Data[dto.UploadResponse]
// @Failure 400 {object} response.Error
// @Router /v1/documents [post]
// @Security BearerAuth
func (handler *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadDocument")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.Fail(w, scope, err, "failed to parse multipart form")

		return
	}

	req := dto.UploadRequest{Kind: r.FormValue(formKind)}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err == nil {
		defer file.Close()

		req.File = fileHeader
		req.FileData = file
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	res, err := handler.service.Upload(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to upload document")

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}
