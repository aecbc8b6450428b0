package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/syscoin-offchain/internal/domain"
	"github.com/totegamma/syscoin-offchain/internal/infra/database/models"
)

type AliasDataRepository struct {
	store documentStore[models.AliasData]
}

func NewAliasDataRepository(db *gorm.DB) *AliasDataRepository {
	return &AliasDataRepository{
		store: documentStore[models.AliasData]{db: db, resource: domain.KindAliasData},
	}
}

func (r *AliasDataRepository) FindByID(ctx context.Context, id string) (domain.AliasData, error) {
	model, err := r.store.findOne(ctx, "id = ? AND kind = ?", id, domain.KindAliasData)
	if err != nil {
		return domain.AliasData{}, err
	}
	return aliasDataFromModel(model)
}

func (r *AliasDataRepository) FindByName(ctx context.Context, name string) (domain.AliasData, error) {
	model, err := r.store.findOne(ctx, "alias_name = ? AND kind = ?", name, domain.KindAliasData)
	if err != nil {
		return domain.AliasData{}, err
	}
	return aliasDataFromModel(model)
}

// Upsert replaces the whole payload stored for record.AliasName, creating the
// record on first write. The record id of an existing row is kept.
func (r *AliasDataRepository) Upsert(ctx context.Context, record domain.AliasData) (domain.AliasData, error) {
	if !json.Valid(record.Payload) {
		return domain.AliasData{}, errors.Wrap(domain.ErrBadRequest, "payload is not valid json")
	}

	model := models.AliasData{
		ID:        uuid.NewString(),
		AliasName: record.AliasName,
		Kind:      domain.KindAliasData,
		Payload:   string(record.Payload),
	}

	err := r.store.upsert(ctx, &model, []string{"alias_name", "kind"}, []string{"payload", "m_date"})
	if err != nil {
		return domain.AliasData{}, err
	}

	return r.FindByName(ctx, record.AliasName)
}

func aliasDataFromModel(model models.AliasData) (domain.AliasData, error) {
	if !json.Valid([]byte(model.Payload)) {
		return domain.AliasData{}, errors.Errorf("corrupted payload for %s", model.ID)
	}
	return domain.AliasData{
		ID:        model.ID,
		AliasName: model.AliasName,
		Kind:      model.Kind,
		Payload:   json.RawMessage(model.Payload),
		UpdatedAt: model.MDate,
	}, nil
}
