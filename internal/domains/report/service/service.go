package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Report=MockReportService

import (
	"context"
	"fmt"
	"time"

	"condo/infras/otel"
	bookingModel "condo/internal/domains/booking/model"
	bookingRepo "condo/internal/domains/booking/repository"
	"condo/internal/domains/report/model/dto"
	"condo/shared/clock"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	"condo/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName    = "Financial Report"
	placeholder  = "-"
	unknownGuest = "Unknown"
	moneyFormat  = 4 // #,##0.00
)

var headers = []string{
	"Date Booked", "Guest Name", "Room", "Schedule", "Promo Code", "Promo Details",
	"Ref #", "Total Amount", "Cash Collected", "Balance (Collectible)",
}

var columnWidths = []float64{14, 24, 20, 16, 14, 24, 18, 16, 16, 20}

type Report interface {
	Financial(ctx context.Context, req dto.FinancialRequest) (dto.FinancialResponse, error)
	FinancialXLSX(ctx context.Context, req dto.FinancialRequest) ([]byte, error)
}

type serviceImpl struct {
	bookings bookingRepo.Booking
	clock    clock.Clock
	otel     otel.Otel
}

func New(bookings bookingRepo.Booking, clock clock.Clock, otel otel.Otel) Report {
	return &serviceImpl{
		bookings: bookings,
		clock:    clock,
		otel:     otel,
	}
}

func (s *serviceImpl) Financial(ctx context.Context, req dto.FinancialRequest) (res dto.FinancialResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Financial")
	defer scope.End()
	defer scope.TraceIfError(&err)

	from, to, err := req.Range(s.clock.Now())
	if err != nil {
		return res, failure.Validation(err.Error())
	}

	if !to.After(from) {
		return res, failure.Validation("to must not be before from")
	}

	field := bookingModel.FieldCheckInDate
	if req.FilterBy == dto.FilterByBookingDate {
		field = bookingModel.FieldCreatedAt
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    []string{bookingModel.StatusConfirmed, bookingModel.StatusCompleted},
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{ArgName: "range_start", Field: field, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: bookingModel.TableName},
			gDto.Filter{ArgName: "range_end", Field: field, Value: to, Operator: gDto.FilterOperatorLess, Table: bookingModel.TableName},
		},
	}
	params := gDto.QueryParams{SortBy: bookingModel.TableName + "." + bookingModel.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	bookings, err := s.bookings.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings for financial report")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	res.From = timezone.DateKey(from, nil)
	res.To = timezone.DateKey(to.AddDate(0, 0, -1), nil)
	res.FilterBy = dto.FilterByCheckIn
	if req.FilterBy == dto.FilterByBookingDate {
		res.FilterBy = dto.FilterByBookingDate
	}

	res.Rows = make([]dto.FinancialRow, 0, len(bookings))
	for _, booking := range bookings {
		row := toRow(booking)

		res.Totals.Revenue += row.Total
		res.Totals.Collected += row.Paid
		res.Totals.Collectibles += row.Balance
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func orPlaceholder(value *string) string {
	if value == nil || *value == constant.Empty {
		return placeholder
	}

	return *value
}

func toRow(booking bookingModel.Booking) dto.FinancialRow {
	row := dto.FinancialRow{
		BookingID:  booking.ID,
		DateBooked: timezone.DateKey(booking.CreatedAt, nil),
		Guest:      booking.GuestName(),
		Room:       orPlaceholder(booking.RoomName),
		Schedule:   timezone.Format(booking.CheckInDate, "01/02") + " - " + timezone.Format(booking.CheckOutDate, "01/02"),
		PromoCode:  orPlaceholder(booking.PromoCode),
		PromoName:  orPlaceholder(booking.PromoName),
		PaymentRef: orPlaceholder(&booking.PaymentRef),
		Total:      booking.TotalPrice,
		Paid:       booking.AmountPaid,
		Balance:    booking.Balance(),
	}

	if row.Guest == constant.Empty {
		row.Guest = unknownGuest
	}

	row.Overpaid = row.Balance < 0

	return row
}

// FinancialXLSX renders the same report as a single-sheet workbook with a totals row.
func (s *serviceImpl) FinancialXLSX(ctx context.Context, req dto.FinancialRequest) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.FinancialXLSX")
	defer scope.End()
	defer scope.TraceIfError(&err)

	report, err := s.Financial(ctx, req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); cErr != nil {
			log.Warn().Err(cErr).Msg("failed to close workbook")
		}
	}()

	if err = writeWorkbook(f, report); err != nil {
		log.Error().Err(err).Msg("failed to build financial workbook")

		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeWorkbook(f *excelize.File, report dto.FinancialResponse) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	if err = f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return err
	}

	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: moneyFormat})
	if err != nil {
		return err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}

		if err = f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}

		if err = f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}

		if err = f.SetColWidth(sheetName, name, name, columnWidths[col]); err != nil {
			return err
		}
	}

	for i, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []any{
			row.DateBooked, row.Guest, row.Room, row.Schedule, row.PromoCode, row.PromoName,
			row.PaymentRef, row.Total, row.Paid, row.Balance,
		}
		if err = f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	last := len(report.Rows) + 2
	if len(report.Rows) > 0 {
		if err = f.SetCellStyle(sheetName, "H2", fmt.Sprintf("J%d", last-1), moneyStyle); err != nil {
			return err
		}
	}

	totals := []any{"TOTALS", nil, nil, nil, nil, nil, nil, report.Totals.Revenue, report.Totals.Collected, report.Totals.Collectibles}
	if err = f.SetSheetRow(sheetName, fmt.Sprintf("A%d", last), &totals); err != nil {
		return err
	}

	return f.SetCellStyle(sheetName, fmt.Sprintf("A%d", last), fmt.Sprintf("J%d", last), totalStyle)
}

// Filename names the XLSX attachment for a report generated at now.
func Filename(now time.Time) string {
	return "Financial_Report_" + timezone.Format(now, "20060102") + ".xlsx"
}
