package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=User=MockUserService

import (
	"context"
	"fmt"

	"condo/config"
	"condo/infras/otel"
	"condo/internal/domains/user/model"
	"condo/internal/domains/user/model/dto"
	"condo/internal/domains/user/repository"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	"condo/shared/password"
	"condo/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"

	temporaryPasswordLength = 12
)

type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, id string) error
	FindOrCreateGuest(ctx context.Context, req dto.GuestAccountRequest) (user model.User, created bool, err error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (res dto.GetUsersResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return res, err
		}

		users, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get users")

			return res, fmt.Errorf("failed to get users: %w", err)
		}

		res.FromModels(users, total, req.Limit)

		return res, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheCountUser, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		count, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count users")

			return 0, fmt.Errorf("failed to count users: %w", err)
		}

		return count, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetUser, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.UserResponse, err error) {
			user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get user")

				return res, fmt.Errorf("failed to get user: %w", err)
			}

			if user.ID == constant.Empty {
				return res, failure.NotFound("user not found")
			}

			res.FromModel(user)

			return res, nil
		})
}

// Update is the staff-facing edit. Accounts cannot change their own role or deactivate themselves.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if self, _ := ctx.Value(constant.ContextKeyUserID).(string); self == id && (req.Role != nil || req.IsActive != nil) {
		return failure.Forbidden("cannot change your own role or active state")
	}

	fields := shared.TransformFields(req, actor(ctx))

	if req.DateOfBirth != nil {
		dob, err := timezone.ParseDateKey(*req.DateOfBirth, nil)
		if err != nil {
			return failure.Validation("date_of_birth must be a date in YYYY-MM-DD format")
		}

		fields[model.FieldDateOfBirth] = dob
	}

	return s.write(ctx, id, fields)
}

// UpdateProfile lets an account edit its own contact details.
func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.UpdateProfile")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if id == constant.Empty {
		return failure.Unauthorized("login required")
	}

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	fields := shared.TransformFields(req, actor(ctx))

	if req.DateOfBirth != nil {
		dob, err := timezone.ParseDateKey(*req.DateOfBirth, nil)
		if err != nil {
			return failure.Validation("date_of_birth must be a date in YYYY-MM-DD format")
		}

		fields[model.FieldDateOfBirth] = dob
	}

	return s.write(ctx, id, fields)
}

func (s *serviceImpl) write(ctx context.Context, id string, fields map[string]any) error {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound("user not found")
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	cache.Forget(ctx, s.cache, []string{shared.BuildCacheKey(cacheGetUser, id)}, cacheGetAllUser, cacheCountUser)

	return nil
}

// FindOrCreateGuest returns the account registered under req.Email, creating one with a random
// password when none exists. Staff share the password with the guest out of band.
func (s *serviceImpl) FindOrCreateGuest(ctx context.Context, req dto.GuestAccountRequest) (user model.User, created bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.FindOrCreateGuest")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, err = s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up guest account")

		return user, false, fmt.Errorf("failed to look up guest account: %w", err)
	}

	if user.ID != constant.Empty {
		return user, false, nil
	}

	temporary, err := password.Temporary(temporaryPasswordLength)
	if err != nil {
		return user, false, fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hashed, err := password.Hash(temporary)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash temporary password")

		return user, false, fmt.Errorf("failed to hash temporary password: %w", err)
	}

	user = req.ToModel(actor(ctx), hashed)

	if err = s.repo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create guest account")

		return model.User{}, false, fmt.Errorf("failed to create guest account: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("guest account created for manual booking")

	cache.Forget(ctx, s.cache, nil, cacheGetAllUser, cacheCountUser)

	return user, true, nil
}

func actor(ctx context.Context) string {
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	return email
}
