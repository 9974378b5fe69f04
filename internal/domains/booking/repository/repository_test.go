package repository_test

import (
	"context"
	"testing"
	"time"

	"condo/infras/otel/mocks"
	"condo/infras/postgres"
	"condo/internal/domains/booking/model"
	"condo/internal/domains/booking/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	checkIn  = time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC)
	checkOut = time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "postgres"),
		Write: sqlx.NewDb(db, "postgres"),
	}

	return repository.New(conn, mocks.NewOtel()), mock
}

func booking() model.Booking {
	return model.Booking{
		ID:            "b-1",
		RoomID:        "room-1",
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		TotalPrice:    5000,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		Source:        model.SourceWebsite,
	}
}

func expectLockAndRoom(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs("room-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT is_active FROM rooms WHERE id = \$1 FOR SHARE`).
		WithArgs("room-1").
		WillReturnRows(rows)
}

func activeRoom() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"is_active"}).AddRow(true)
}

func expectLockAndCount(mock sqlmock.Sqlmock, overlaps int) {
	expectLockAndRoom(mock, activeRoom())
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM bookings`).
		WithArgs("room-1", checkIn, checkOut, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(overlaps))
}

func TestReserve(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "clear window inserts and commits",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectLockAndCount(mock, 0)
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "overlap rolls back with conflict",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectLockAndCount(mock, 1)
				mock.ExpectRollback()
			},
			wantErr: repository.ErrDatesUnavailable,
		},
		{
			name: "exclusion constraint maps to conflict",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectLockAndCount(mock, 0)
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(&pq.Error{Code: "23P01"})
				mock.ExpectRollback()
			},
			wantErr: repository.ErrDatesUnavailable,
		},
		{
			name: "duplicate external id",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectLockAndCount(mock, 0)
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_external_id_key"})
				mock.ExpectRollback()
			},
			wantErr: repository.ErrDuplicateExternalID,
		},
		{
			name: "room deactivated before the lock was granted",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectLockAndRoom(mock, sqlmock.NewRows([]string{"is_active"}).AddRow(false))
				mock.ExpectRollback()
			},
			wantErr: repository.ErrRoomUnavailable,
		},
		{
			name: "room removed before the lock was granted",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectLockAndRoom(mock, sqlmock.NewRows([]string{"is_active"}))
				mock.ExpectRollback()
			},
			wantErr: repository.ErrRoomUnavailable,
		},
		{
			name: "empty stay rejected by the table",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectLockAndCount(mock, 0)
				mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(&pq.Error{Code: "23514", Constraint: "bookings_stay_check"})
				mock.ExpectRollback()
			},
			wantErr: repository.ErrEmptyStay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setupMock(mock)

			err := repo.Reserve(context.Background(), booking())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReserve_TouchingStaysAreNotOverlaps(t *testing.T) {
	repo, mock := newRepo(t)

	// The previous stay ends exactly at the new check-in. Half-open windows only overlap when the
	// existing check-in is before the new check-out and the existing check-out is after the new check-in.
	next := booking()
	next.CheckInDate = checkOut
	next.CheckOutDate = checkOut.Add(22 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WithArgs("room-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT is_active FROM rooms`).WithArgs("room-1").WillReturnRows(activeRoom())
	mock.ExpectQuery(`WHERE room_id = \$1\s+AND check_in_date < \$3\s+AND check_out_date > \$2\s+AND status = ANY\(\$4\)`).
		WithArgs("room-1", next.CheckInDate, next.CheckOutDate, pq.Array(model.ActiveStatuses)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reserve(context.Background(), next))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_RestrictedPromo(t *testing.T) {
	promoID, userID := "promo-1", "user-1"

	withPromo := booking()
	withPromo.PromoID = &promoID
	withPromo.UserID = &userID

	expectClaim := func(mock sqlmock.Sqlmock, uses int) {
		expectLockAndCount(mock, 0)
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs("promo:promo-1:user-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`cardinality\(promotions.allowed_emails\) > 0`).
			WithArgs(promoID, userID, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(uses))
	}

	t.Run("first use is recorded", func(t *testing.T) {
		repo, mock := newRepo(t)

		expectClaim(mock, 0)
		mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Reserve(context.Background(), withPromo))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("use committed by another room's booking", func(t *testing.T) {
		repo, mock := newRepo(t)

		expectClaim(mock, 1)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Reserve(context.Background(), withPromo), repository.ErrPromoUsed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsAvailable(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`SELECT EXISTS\(SELECT 1 FROM bookings`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	available, err := repo.IsAvailable(context.Background(), "room-1", checkIn, checkOut)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestExpireUnpaid(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)
	cutoff := now.Add(-time.Hour)

	mock.ExpectQuery(`UPDATE bookings`).
		WithArgs(model.StatusCancelled, "note", now, "system", model.StatusPending, model.PaymentUnpaid, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "user_id", "status", "payment_status", "created_at"}).
			AddRow("b-1", "room-1", "u-1", model.StatusCancelled, model.PaymentUnpaid, cutoff.Add(-time.Minute)))

	mock.ExpectQuery(`UPDATE bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "user_id", "status", "payment_status", "created_at"}))

	expired, err := repo.ExpireUnpaid(context.Background(), cutoff, now, "note")
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "b-1", expired[0].ID)

	again, err := repo.ExpireUnpaid(context.Background(), cutoff, now, "note")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestCountPromoUses(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(1\) FROM bookings WHERE promo_id`).
		WithArgs("promo-1", "u-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountPromoUses(context.Background(), "promo-1", "u-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mock.ExpectQuery(`AND id <> \$4`).
		WithArgs("promo-1", "u-1", sqlmock.AnyArg(), "b-9").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err = repo.CountPromoUses(context.Background(), "promo-1", "u-1", "b-9")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClearIdentityImages(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	require.NoError(t, repo.ClearIdentityImages(context.Background(), nil, now))

	mock.ExpectExec(`UPDATE bookings\s+SET guest_id_image = ''`).
		WithArgs(sqlmock.AnyArg(), now, "system").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.ClearIdentityImages(context.Background(), []string{"b-1", "b-2"}, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRetained(t *testing.T) {
	repo, mock := newRepo(t)
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, guest_id_image, companions FROM bookings`).
		WithArgs(model.StatusCancelled, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guest_id_image", "companions"}).
			AddRow("b-1", "https://cdn.condo.test/documents/a.jpg", []byte(`[{"name":"Ana","id_image":"https://cdn.condo.test/documents/b.jpg"}]`)))

	bookings, err := repo.ListRetained(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "https://cdn.condo.test/documents/a.jpg", bookings[0].GuestIDImage)
	require.Len(t, bookings[0].Companions, 1)
	assert.Equal(t, "https://cdn.condo.test/documents/b.jpg", bookings[0].Companions[0].IDImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}
