package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"condo/infras/otel"
	"condo/infras/postgres"
	"condo/internal/domains/booking/model"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/logger"
	gRepo "condo/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrDatesUnavailable    = errors.New("the selected dates are no longer available")
	ErrDuplicateExternalID = errors.New("external event already imported")
	ErrRoomUnavailable     = errors.New("room is not accepting bookings")
	ErrEmptyStay           = errors.New("check_out must be after check_in")
	ErrPromoUsed           = errors.New("restricted promotion already used by this account")
)

const (
	queryAdvisoryLock = `SELECT pg_advisory_xact_lock(hashtext($1::text))`

	queryRoomActive = `SELECT is_active FROM rooms WHERE id = $1 FOR SHARE`

	queryCountRestrictedPromoUses = `SELECT COUNT(1) FROM bookings
		JOIN promotions ON promotions.id = bookings.promo_id
		WHERE bookings.promo_id = $1
		AND bookings.user_id = $2
		AND bookings.status = ANY($3)
		AND cardinality(promotions.allowed_emails) > 0`

	constraintStayCheck = "bookings_stay_check"

	queryCountOverlaps = `SELECT COUNT(1) FROM bookings
		WHERE room_id = $1
		AND check_in_date < $3
		AND check_out_date > $2
		AND status = ANY($4)`

	queryExpireUnpaid = `UPDATE bookings
		SET status = $1,
			admin_notes = CASE WHEN admin_notes = '' THEN $2 ELSE admin_notes || E'\n' || $2 END,
			modified_at = $3,
			modified_by = $4
		WHERE status = $5 AND payment_status = $6 AND created_at < $7
		RETURNING id, room_id, user_id, status, payment_status, created_at`

	queryCountPromoUses = `SELECT COUNT(1) FROM bookings
		WHERE promo_id = $1 AND user_id = $2 AND status = ANY($3)`

	queryListRetained = `SELECT id, guest_id_image, companions FROM bookings
		WHERE status = $1 AND modified_at < $2
		AND (guest_id_image <> '' OR EXISTS (
			SELECT 1 FROM jsonb_array_elements(companions) AS companion
			WHERE COALESCE(companion->>'id_image', '') <> ''
		))`

	queryClearIdentityImages = `UPDATE bookings
		SET guest_id_image = '',
			companions = COALESCE((
				SELECT jsonb_agg(companion - 'id_image') FROM jsonb_array_elements(companions) AS companion
			), '[]'::jsonb),
			modified_at = $2,
			modified_by = $3
		WHERE id = ANY($1)`
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	Reserve(ctx context.Context, booking model.Booking) error
	IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	ListOverlapping(ctx context.Context, roomID string, from, to time.Time) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id string, from []string, req map[string]any) (bool, error)
	ExpireUnpaid(ctx context.Context, cutoff, now time.Time, note string) ([]model.Booking, error)
	CountPromoUses(ctx context.Context, promoID, userID, excludeBookingID string) (int, error)
	ListRetained(ctx context.Context, cancelledBefore time.Time) ([]model.Booking, error)
	ClearIdentityImages(ctx context.Context, ids []string, now time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Reserve serializes attempts on the same room with a transaction scoped advisory lock, then re-reads
// the room, runs the overlap check and inserts inside that transaction. The room row is share locked so
// a concurrent deactivation waits for the commit. A booking carrying a promotion for an account also
// takes a lock on that pair, always after the room lock, and re-counts restricted uses. The exclusion
// constraint on the table backs this up for writers that bypass the lock.
func (r *repositoryImpl) Reserve(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reserve")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute("room.id", booking.RoomID)

	return r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, queryAdvisoryLock, booking.RoomID); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to lock room calendar: %w", err)
		}

		var active bool

		err := tx.GetContext(ctx, &active, queryRoomActive, booking.RoomID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
			return ErrRoomUnavailable
		}

		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to check room: %w", err)
		}

		var overlaps int

		err = tx.GetContext(ctx, &overlaps, queryCountOverlaps,
			booking.RoomID, booking.CheckInDate, booking.CheckOutDate, pq.Array(model.ActiveStatuses))
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to check overlapping bookings: %w", err)
		}

		if overlaps > 0 {
			return ErrDatesUnavailable
		}

		if err := r.claimPromo(ctx, tx, booking); err != nil {
			return err
		}

		if err := r.InsertTx(ctx, tx, booking); err != nil {
			return translateInsertError(err)
		}

		return nil
	})
}

// claimPromo rejects a second active booking by the same account on an email restricted promotion.
func (r *repositoryImpl) claimPromo(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	if booking.PromoID == nil || booking.UserID == nil {
		return nil
	}

	key := "promo:" + *booking.PromoID + ":" + *booking.UserID
	if _, err := tx.ExecContext(ctx, queryAdvisoryLock, key); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock promotion use: %w", err)
	}

	var uses int

	err := tx.GetContext(ctx, &uses, queryCountRestrictedPromoUses,
		*booking.PromoID, *booking.UserID, pq.Array(model.ActiveStatuses))
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to count promotion uses: %w", err)
	}

	if uses > 0 {
		return ErrPromoUsed
	}

	return nil
}

func translateInsertError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeExclusionViolation:
		return ErrDatesUnavailable
	case constant.PqErrorCodeCheckViolation:
		if pqErr.Constraint == constraintStayCheck {
			return ErrEmptyStay
		}
	case constant.PqErrorCodeUniqueViolation:
		if strings.Contains(pqErr.Constraint, model.FieldExternalID) {
			return ErrDuplicateExternalID
		}
	}

	return err
}

func activeWindowFilter(roomID string, from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
			gDto.Filter{ArgName: "window_end", Field: model.FieldCheckInDate, Value: to, Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{ArgName: "window_start", Field: model.FieldCheckOutDate, Value: from, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
		},
	}
}

// IsAvailable runs the reservation overlap predicate without taking the lock.
func (r *repositoryImpl) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.IsAvailable")
	defer scope.End()

	taken, err := r.Exist(ctx, activeWindowFilter(roomID, checkIn, checkOut))
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	return !taken, nil
}

func (r *repositoryImpl) ListOverlapping(ctx context.Context, roomID string, from, to time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListOverlapping")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldCheckInDate, SortDir: gDto.SortDirAsc}

	bookings, err := r.GetAll(ctx, params, activeWindowFilter(roomID, from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus applies req only while the row is still in one of the from statuses, locking it first.
// It reports false when the row is missing or has already moved on.
func (r *repositoryImpl) UpdateStatus(ctx context.Context, id string, from []string, req map[string]any) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatus")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: from, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		},
	}

	updated := false

	err := r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		current, err := r.GetForUpdateTx(ctx, tx, filter, model.FieldID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.ID == "" {
			return nil
		}

		if err := r.UpdateTx(ctx, tx, req, filter); err != nil {
			return err //nolint:wrapcheck
		}

		updated = true

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	return updated, nil
}

// ExpireUnpaid cancels stale unpaid holds in one statement and returns the rows it touched.
// A second run with the same cutoff matches nothing.
func (r *repositoryImpl) ExpireUnpaid(ctx context.Context, cutoff, now time.Time, note string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExpireUnpaid")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryExpireUnpaid)

	var expired []model.Booking

	err := r.db.Write.SelectContext(ctx, &expired, queryExpireUnpaid,
		model.StatusCancelled, note, now, constant.ContextSystem,
		model.StatusPending, model.PaymentUnpaid, cutoff)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to expire unpaid bookings: %w", err)
	}

	return expired, nil
}

func (r *repositoryImpl) CountPromoUses(ctx context.Context, promoID, userID, excludeBookingID string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountPromoUses")
	defer scope.End()

	query := queryCountPromoUses
	args := []any{promoID, userID, pq.Array(model.ActiveStatuses)}

	if excludeBookingID != "" {
		query += " AND id <> $4"
		args = append(args, excludeBookingID)
	}

	var count int
	if err := r.db.Read.GetContext(ctx, &count, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count promotion uses: %w", err)
	}

	return count, nil
}

// ListRetained returns bookings cancelled before the cutoff that still reference identity images.
func (r *repositoryImpl) ListRetained(ctx context.Context, cancelledBefore time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListRetained")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryListRetained)

	var bookings []model.Booking
	if err := r.db.Read.SelectContext(ctx, &bookings, queryListRetained, model.StatusCancelled, cancelledBefore); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list retained bookings: %w", err)
	}

	return bookings, nil
}

func (r *repositoryImpl) ClearIdentityImages(ctx context.Context, ids []string, now time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ClearIdentityImages")
	defer scope.End()

	if len(ids) == 0 {
		return nil
	}

	if _, err := r.db.Write.ExecContext(ctx, queryClearIdentityImages, pq.Array(ids), now, constant.ContextSystem); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to clear identity images: %w", err)
	}

	return nil
}
