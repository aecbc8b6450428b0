package usecase

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/totegamma/syscoin-offchain"
	"github.com/totegamma/syscoin-offchain/internal/domain"
)

// ReportSubmitInput is an offer report as received from the client.
type ReportSubmitInput struct {
	Payload    string
	Hash       string
	SignedHash string
	Address    string
}

type ReportUsecase struct {
	repo OfferReportRepository
}

func NewReportUsecase(repo OfferReportRepository) *ReportUsecase {
	return &ReportUsecase{repo: repo}
}

// Submit stores a report after checking its hash and that it was signed by
// input.Address. Any address may report any offer; only control of the
// claimed address is proven.
func (uc *ReportUsecase) Submit(ctx context.Context, input ReportSubmitInput) error {
	ctx, span := tracer.Start(ctx, "Report.Usecase.Submit")
	defer span.End()

	payload, err := parsePayload(input.Payload)
	if err != nil {
		writeOutcomes.WithLabelValues(domain.KindOfferReport, outcomeBadRequest).Inc()
		return err
	}

	if input.Address == "" {
		writeOutcomes.WithLabelValues(domain.KindOfferReport, outcomeBadRequest).Inc()
		return fmt.Errorf("%w: address is required", domain.ErrBadRequest)
	}

	if !offchain.VerifyHash(input.Payload, input.Hash) {
		writeOutcomes.WithLabelValues(domain.KindOfferReport, outcomeHashMismatch).Inc()
		return domain.ErrIntegrity
	}

	if !offchain.VerifySignature(input.Hash, input.SignedHash, input.Address) {
		writeOutcomes.WithLabelValues(domain.KindOfferReport, outcomeSignature).Inc()
		return domain.ErrAuthorization
	}

	_, err = uc.repo.Insert(ctx, domain.OfferReport{
		Kind:     domain.KindOfferReport,
		Reporter: input.Address,
		Payload:  payload,
	})
	if err != nil {
		writeOutcomes.WithLabelValues(domain.KindOfferReport, outcomeStoreFailure).Inc()
		span.RecordError(errors.Wrap(err, "ReportUsecase.Submit: repo.Insert failed"))
		return errors.Wrap(err, "failed to store report")
	}
	writeOutcomes.WithLabelValues(domain.KindOfferReport, outcomeAccepted).Inc()

	return nil
}

// Counts returns how many times each offer guid has been reported.
func (uc *ReportUsecase) Counts(ctx context.Context) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, "Report.Usecase.Counts")
	defer span.End()

	reports, err := uc.repo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to list reports")
	}

	return Aggregate(reports), nil
}

// Aggregate counts reports per offer guid. Reports without a guid are skipped.
func Aggregate(reports []domain.OfferReport) map[string]int {
	counts := make(map[string]int)
	for _, report := range reports {
		guid, ok := report.GUID()
		if !ok {
			continue
		}
		counts[guid]++
	}
	return counts
}
