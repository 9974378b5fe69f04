package report

import (
	"net/http"

	"condo/infras/otel"
	"condo/internal/domains/report/model/dto"
	"condo/internal/domains/report/service"
	"condo/shared/constant"
	"condo/shared/timezone"
	"condo/shared/validator"
	"condo/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/financial", handler.GetFinancialReport)
	})
}

// GetFinancialReport returns revenue and collections for confirmed and completed bookings.
// @Summary Get financial report
// @Description Returns JSON by default. Pass format=xlsx to download a spreadsheet.
// @Tags Report
// @Produce json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "First day (YYYY-MM-DD), defaults to today"
// @Param to query string false "Last day (YYYY-MM-DD), defaults to today"
// @Param filter_by query string false "check_in or booking_date"
// @Param format query string false "json or xlsx"
// @Success 200 {object} response.Data[dto.FinancialResponse]
// @Failure 400 {object} response.Error
// @Router /v1/reports/financial [get]
// @Security BearerAuth
func (handler *Handler) GetFinancialReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFinancialReport")
	defer scope.End()

	query := r.URL.Query()

	req := dto.FinancialRequest{
		From:     query.Get("from"),
		To:       query.Get("to"),
		FilterBy: query.Get("filter_by"),
		Format:   query.Get("format"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.Fail(w, scope, err, "invalid request")

		return
	}

	if req.Format == dto.FormatXLSX {
		file, err := handler.service.FinancialXLSX(ctx, req)
		if err != nil {
			response.Fail(w, scope, err, "failed to build financial workbook")

			return
		}

		response.WithFile(w, constant.ContentTypeXLSX, service.Filename(timezone.Now()), file)

		return
	}

	res, err := handler.service.Financial(ctx, req)
	if err != nil {
		response.Fail(w, scope, err, "failed to get financial report")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
