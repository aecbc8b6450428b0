package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/syscoin-offchain/internal/domain"
)

// documentStore is the typed persistence contract both record kinds are built
// on: findOne, upsert, insert and find over a single gorm model.
type documentStore[M any] struct {
	db       *gorm.DB
	resource string
}

func (s documentStore[M]) findOne(ctx context.Context, query string, args ...any) (M, error) {
	var model M
	err := s.db.WithContext(ctx).Where(query, args...).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model, domain.NotFoundError{Resource: s.resource}
		}
		return model, storeError("findOne", err)
	}
	return model, nil
}

// upsert inserts model, replacing the listed columns of the row that already
// holds the same conflict key.
func (s documentStore[M]) upsert(ctx context.Context, model *M, conflict []string, replace []string) error {
	columns := make([]clause.Column, len(conflict))
	for i, name := range conflict {
		columns[i] = clause.Column{Name: name}
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   columns,
		DoUpdates: clause.AssignmentColumns(replace),
	}).Create(model).Error
	if err != nil {
		return storeError("upsert", err)
	}
	return nil
}

func (s documentStore[M]) insert(ctx context.Context, model *M) error {
	err := s.db.WithContext(ctx).Create(model).Error
	if err != nil {
		return storeError("insert", err)
	}
	return nil
}

func (s documentStore[M]) find(ctx context.Context, order string, query string, args ...any) ([]M, error) {
	var models []M
	err := s.db.WithContext(ctx).Where(query, args...).Order(order).Find(&models).Error
	if err != nil {
		return nil, storeError("find", err)
	}
	return models, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}
