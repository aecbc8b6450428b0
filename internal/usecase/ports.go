package usecase

import (
	"context"

	"github.com/totegamma/syscoin-offchain/internal/domain"
)

// AliasDataRepository defines storage operations for alias data.
type AliasDataRepository interface {
	FindByID(ctx context.Context, id string) (domain.AliasData, error)
	FindByName(ctx context.Context, name string) (domain.AliasData, error)
	Upsert(ctx context.Context, record domain.AliasData) (domain.AliasData, error)
}

// OfferReportRepository defines storage operations for offer reports.
type OfferReportRepository interface {
	Insert(ctx context.Context, report domain.OfferReport) (domain.OfferReport, error)
	ListAll(ctx context.Context) ([]domain.OfferReport, error)
}

// OwnerResolver looks up the current on-chain owner of an alias.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, alias string) (string, error)
}

// AliasDataPublisher announces accepted alias data writes.
type AliasDataPublisher interface {
	PublishAliasData(ctx context.Context, record domain.AliasData, url string) error
}

// NodeClient exposes the chain node information endpoint.
type NodeClient interface {
	GetInfo(ctx context.Context) (map[string]any, error)
}
