package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/syscoin-offchain"
	"github.com/totegamma/syscoin-offchain/internal/domain"
)

var tracer = otel.Tracer("usecase")

// AliasDataSubmitInput is an alias data write as received from the client.
type AliasDataSubmitInput struct {
	AliasName  string
	Payload    string
	Hash       string
	SignedHash string
}

type AliasDataUsecase struct {
	repo      AliasDataRepository
	owners    OwnerResolver
	publisher AliasDataPublisher
	baseURL   string
}

// NewAliasDataUsecase wires the alias data pipeline. publisher may be nil.
func NewAliasDataUsecase(repo AliasDataRepository, owners OwnerResolver, publisher AliasDataPublisher, baseURL string) *AliasDataUsecase {
	return &AliasDataUsecase{
		repo:      repo,
		owners:    owners,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

// Submit authenticates and stores alias data, returning the URL it can be
// read back from. The steps run in a fixed order: payload parsing, hash check,
// owner resolution, signature check against the resolved owner, upsert.
func (uc *AliasDataUsecase) Submit(ctx context.Context, input AliasDataSubmitInput) (string, error) {
	ctx, span := tracer.Start(ctx, "AliasData.Usecase.Submit")
	defer span.End()

	alias := offchain.NormalizeAlias(input.AliasName)
	span.SetAttributes(attribute.String("alias", alias))

	if alias == "" {
		writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeBadRequest).Inc()
		return "", fmt.Errorf("%w: alias name is required", domain.ErrBadRequest)
	}

	payload, err := parsePayload(input.Payload)
	if err != nil {
		writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeBadRequest).Inc()
		return "", err
	}

	if !offchain.VerifyHash(input.Payload, input.Hash) {
		writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeHashMismatch).Inc()
		return "", domain.ErrIntegrity
	}

	owner, err := uc.owners.ResolveOwner(ctx, alias)
	if err != nil {
		span.RecordError(errors.Wrap(err, "AliasDataUsecase.Submit: owners.ResolveOwner failed"))
		switch {
		case errors.Is(err, domain.ErrAliasNotFound):
			writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeInvalidAlias).Inc()
		case errors.Is(err, domain.ErrUpstream):
			writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeUnavailable).Inc()
		}
		return "", err
	}

	if !offchain.VerifySignature(input.Hash, input.SignedHash, owner) {
		writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeSignature).Inc()
		return "", domain.ErrAuthorization
	}

	record, err := uc.repo.Upsert(ctx, domain.AliasData{
		AliasName: alias,
		Kind:      domain.KindAliasData,
		Payload:   payload,
	})
	if err != nil {
		writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeStoreFailure).Inc()
		span.RecordError(errors.Wrap(err, "AliasDataUsecase.Submit: repo.Upsert failed"))
		return "", errors.Wrap(err, "failed to store alias data")
	}
	writeOutcomes.WithLabelValues(domain.KindAliasData, outcomeAccepted).Inc()

	url := offchain.ComposeAliasDataURL(uc.baseURL, alias)

	if uc.publisher != nil {
		// the write is committed, a lost notification must not fail it
		err = uc.publisher.PublishAliasData(ctx, record, url)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to publish alias data event",
				slog.String("error", err.Error()),
				slog.String("alias", alias),
				slog.String("module", "usecase"),
			)
		}
	}

	return url, nil
}

// Get returns the client-visible document stored for identifier, which is
// either a record id or an alias name.
func (uc *AliasDataUsecase) Get(ctx context.Context, identifier string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "AliasData.Usecase.Get")
	defer span.End()

	kind, key := offchain.ClassifyIdentifier(identifier)
	span.SetAttributes(attribute.String("lookup", kind.String()))

	if kind == offchain.IdentifierRecordID {
		record, err := uc.repo.FindByID(ctx, key)
		if err == nil {
			return record.Document(), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
			return nil, err
		}
		// an alias may be spelled like a record id
		key = offchain.NormalizeAlias(identifier)
	}

	record, err := uc.repo.FindByName(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}

	return record.Document(), nil
}

// parsePayload validates raw and keeps it verbatim, so the stored document is
// exactly the one whose hash was checked.
func parsePayload(raw string) (json.RawMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: payload is required", domain.ErrBadRequest)
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%w: payload is not valid json", domain.ErrBadRequest)
	}
	return json.RawMessage(raw), nil
}
