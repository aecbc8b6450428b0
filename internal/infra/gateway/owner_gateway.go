package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/syscoin-offchain"
	"github.com/totegamma/syscoin-offchain/client"
	"github.com/totegamma/syscoin-offchain/internal/domain"
)

var tracer = otel.Tracer("gateway")

type aliasInfoClient interface {
	AliasInfo(ctx context.Context, alias string) (offchain.AliasInfo, error)
}

// OwnerGateway resolves the current owner of an alias from the chain. Results
// are never cached: ownership can change between two requests.
type OwnerGateway struct {
	client  aliasInfoClient
	timeout time.Duration
}

func NewOwnerGateway(cl aliasInfoClient, timeout time.Duration) *OwnerGateway {
	return &OwnerGateway{client: cl, timeout: timeout}
}

func (g *OwnerGateway) ResolveOwner(ctx context.Context, alias string) (string, error) {
	ctx, span := tracer.Start(ctx, "Owner.Gateway.ResolveOwner", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("alias", alias))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	info, err := g.client.AliasInfo(ctx, alias)
	if err != nil {
		span.RecordError(err)
		var rpcErr *client.RPCError
		if errors.As(err, &rpcErr) && isUnknownAlias(rpcErr) {
			return "", domain.ErrAliasNotFound
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if info.Address == "" || info.Expired {
		return "", domain.ErrAliasNotFound
	}

	return info.Address, nil
}

// isUnknownAlias reports whether the node rejected the lookup because the name
// does not resolve. Alias lookups that miss surface as misc or wallet errors
// mentioning the alias; malformed names as invalid parameter or key errors.
// Everything else (warm-up, missing method, internal errors) is the node not
// being able to answer.
func isUnknownAlias(err *client.RPCError) bool {
	switch err.Code {
	case client.RPCInvalidAddressOrKey, client.RPCInvalidParameter:
		return true
	case client.RPCMiscError, client.RPCWalletError:
		return strings.Contains(strings.ToLower(err.Message), "alias")
	default:
		return false
	}
}
