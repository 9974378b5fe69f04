package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"condo/infras/otel"
	"condo/infras/postgres"
	"condo/internal/domains/promotion/model"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	gRepo "condo/shared/repository"
)

type Promotion interface {
	Insert(ctx context.Context, model model.Promotion) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Promotion, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Promotion, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	GetByCode(ctx context.Context, code string) (model.Promotion, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Promotion]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Promotion {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Promotion](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func CodeFilter(code string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Value:    strings.ToUpper(strings.TrimSpace(code)),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

// GetByCode matches codes case-insensitively; codes are stored upper-cased.
func (r *repositoryImpl) GetByCode(ctx context.Context, code string) (model.Promotion, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".promotion.GetByCode")
	defer scope.End()

	promo, err := r.Get(ctx, CodeFilter(code))
	if err != nil {
		return promo, fmt.Errorf("failed to get promotion by code: %w", err)
	}

	return promo, nil
}
