package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"condo/infras/otel"
	"condo/infras/postgres"
	"condo/internal/domains/siteconfig/model"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	gRepo "condo/shared/repository"

	"github.com/jmoiron/sqlx"
)

type SiteConfig interface {
	Current(ctx context.Context) (model.SiteConfig, error)
	Save(ctx context.Context, req map[string]any, seed model.SiteConfig) error
}

type repositoryImpl struct {
	gRepo.Repository[model.SiteConfig]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) SiteConfig {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.SiteConfig](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func singletonFilter() gDto.FilterGroup {
	return shared.FilterByID(model.SingletonID, model.FieldID, model.TableName)
}

// Current returns the stored row, or the defaults when it was never written.
func (r *repositoryImpl) Current(ctx context.Context) (model.SiteConfig, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".site_config.Current")
	defer scope.End()

	conf, err := r.Get(ctx, singletonFilter())
	if err != nil {
		return conf, fmt.Errorf("failed to get site config: %w", err)
	}

	if conf.ID == constant.Empty {
		return model.Default(), nil
	}

	return conf, nil
}

// Save updates the row, inserting seed first when the row does not exist yet.
func (r *repositoryImpl) Save(ctx context.Context, req map[string]any, seed model.SiteConfig) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".site_config.Save")
	defer scope.End()

	return r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		current, err := r.GetForUpdateTx(ctx, tx, singletonFilter(), model.FieldID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.ID == constant.Empty {
			seed.ID = model.SingletonID

			return r.InsertTx(ctx, tx, seed) //nolint:wrapcheck
		}

		return r.UpdateTx(ctx, tx, req, singletonFilter()) //nolint:wrapcheck
	})
}
