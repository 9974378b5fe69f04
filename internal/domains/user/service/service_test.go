package service_test

import (
	"context"
	"errors"
	"testing"

	"condo/config"
	"condo/infras/otel/mocks"
	userMocks "condo/internal/domains/user/mocks"
	"condo/internal/domains/user/model"
	"condo/internal/domains/user/model/dto"
	"condo/internal/domains/user/service"
	cacheMocks "condo/shared/cache/mocks"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.User, *userMocks.MockUser, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func TestUserService_Get(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cache miss loads from repository",
			id:   "user-1",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "user:get:user-1", gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "user-1", Email: "ana@condo.test"}, nil)
			},
		},
		{
			name: "not found",
			id:   "missing",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			id:   "user-2",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("db down"))
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, res.ID)
		})
	}
}

func TestUserService_GetAll(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	params := gDto.QueryParams{Page: 1, Limit: 10}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.User{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Users, 2)
}

func TestUserService_Update(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	role := constant.RoleStaff
	badDOB := "31-12-1990"
	dob := "1990-12-31"

	tests := []struct {
		name      string
		req       dto.UpdateUserRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name:      "empty request",
			req:       dto.UpdateUserRequest{},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "not found",
			req:  dto.UpdateUserRequest{Role: &role},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "invalid date of birth",
			req:  dto.UpdateUserRequest{DateOfBirth: &badDOB},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "role and date of birth written",
			req:  dto.UpdateUserRequest{Role: &role, DateOfBirth: &dob},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.RoleStaff, fields[model.FieldRole])
						assert.Contains(t, fields, model.FieldDateOfBirth)

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, "admin@condo.test")

			err := svc.Update(ctx, tt.req, "user-1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserService_FindOrCreateGuest(t *testing.T) {
	t.Run("existing account is reused", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().GetByEmail(gomock.Any(), "walkin@condo.test").Return(model.User{ID: "user-9"}, nil)

		user, created, err := svc.FindOrCreateGuest(context.Background(), dto.GuestAccountRequest{Email: "walkin@condo.test"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "user-9", user.ID)
	})

	t.Run("missing account is created with a hashed password", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user model.User) error {
				assert.Equal(t, "walkin@condo.test", user.Email)
				assert.Equal(t, constant.RoleUser, user.Role)
				assert.NotEmpty(t, user.Password)
				assert.True(t, user.IsActive)

				return nil
			})

		user, created, err := svc.FindOrCreateGuest(context.Background(), dto.GuestAccountRequest{Email: " WalkIn@condo.test "})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, user.ID)
	})

	t.Run("insert failure", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("duplicate"))

		_, created, err := svc.FindOrCreateGuest(context.Background(), dto.GuestAccountRequest{Email: "x@condo.test"})
		assert.Error(t, err)
		assert.False(t, created)
	})
}

func TestUserService_Update_Self(t *testing.T) {
	svc, _, _ := newService(t)

	active := false
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	err := svc.Update(ctx, dto.UpdateUserRequest{IsActive: &active}, "admin-1")

	require.Error(t, err)
	assert.Equal(t, 403, failure.GetCode(err))
}

func TestUserService_UpdateProfile(t *testing.T) {
	phone := "+63 917 000 0000"

	t.Run("writes only profile fields", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, phone, fields[model.FieldPhone])
				assert.NotContains(t, fields, model.FieldRole)
				assert.Equal(t, "ana@condo.test", fields[constant.FieldModifiedBy])

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, "ana@condo.test")
		assert.NoError(t, svc.UpdateProfile(ctx, dto.UpdateProfileRequest{Phone: &phone}, "user-1"))
	})

	t.Run("anonymous", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Phone: &phone}, "")
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("empty", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{}, "user-1")
		assert.Equal(t, 400, failure.GetCode(err))
	})
}
