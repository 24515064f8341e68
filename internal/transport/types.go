// Package transport exposes the claim engine over HTTP.
package transport

import (
	"context"

	"github.com/goodnatureofminers/onclick-backend/internal/clicks"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/internal/service"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Engine interface {
		Dispatch(ctx context.Context, cmd service.Command) service.Outcome
		Click(ctx context.Context) (clicks.ClickResponse, error)
		Clicks(ctx context.Context) (clicks.ClicksResponse, error)
		Network(ctx context.Context) (model.NetworkID, error)
		Networks() []model.Network
		SelectNetwork(ctx context.Context, id model.NetworkID) error
		Binding(ctx context.Context, id model.NetworkID) (service.BindingInfo, error)
		ResolveSend(ctx context.Context, cmd service.Command) (service.Command, error)
		Claims(ctx context.Context) ([]service.StoredClaim, error)
		ExportClaim(ctx context.Context, token string) (string, error)
		Reconcile(ctx context.Context) (service.ReconcileResult, error)
		Balance(ctx context.Context, network model.NetworkID, address string) (string, error)
		GrantSigner(ctx context.Context, signer, allowance string) (string, error)
	}
	RedemptionReader interface {
		Redemptions(ctx context.Context, filter model.RedemptionFilter) ([]model.Redemption, error)
	}
	OutcomeSource interface {
		Subscribe(buffer int) (<-chan service.Outcome, func())
	}
)
