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

type OfferReportRepository struct {
	store documentStore[models.OfferReport]
}

func NewOfferReportRepository(db *gorm.DB) *OfferReportRepository {
	return &OfferReportRepository{
		store: documentStore[models.OfferReport]{db: db, resource: domain.KindOfferReport},
	}
}

func (r *OfferReportRepository) FindByID(ctx context.Context, id string) (domain.OfferReport, error) {
	model, err := r.store.findOne(ctx, "id = ? AND kind = ?", id, domain.KindOfferReport)
	if err != nil {
		return domain.OfferReport{}, err
	}
	return offerReportFromModel(model)
}

// Insert always stores a new report, duplicates included.
func (r *OfferReportRepository) Insert(ctx context.Context, report domain.OfferReport) (domain.OfferReport, error) {
	if !json.Valid(report.Payload) {
		return domain.OfferReport{}, errors.Wrap(domain.ErrBadRequest, "payload is not valid json")
	}

	guid, _ := report.GUID()
	model := models.OfferReport{
		ID:       uuid.NewString(),
		Kind:     domain.KindOfferReport,
		GUID:     guid,
		Reporter: report.Reporter,
		Payload:  string(report.Payload),
	}

	err := r.store.insert(ctx, &model)
	if err != nil {
		return domain.OfferReport{}, err
	}

	return offerReportFromModel(model)
}

// ListAll returns every stored report, oldest first.
func (r *OfferReportRepository) ListAll(ctx context.Context) ([]domain.OfferReport, error) {
	rows, err := r.store.find(ctx, "c_date asc", "kind = ?", domain.KindOfferReport)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.OfferReport, 0, len(rows))
	for _, row := range rows {
		report, err := offerReportFromModel(row)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func offerReportFromModel(model models.OfferReport) (domain.OfferReport, error) {
	if !json.Valid([]byte(model.Payload)) {
		return domain.OfferReport{}, errors.Errorf("corrupted payload for %s", model.ID)
	}
	return domain.OfferReport{
		ID:        model.ID,
		Kind:      model.Kind,
		Reporter:  model.Reporter,
		Payload:   json.RawMessage(model.Payload),
		CreatedAt: model.CDate,
	}, nil
}
