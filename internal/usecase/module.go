package usecase

import (
	"go.uber.org/fx"

	"github.com/altmarket/storefront/internal/adapter/gateway"
	"github.com/altmarket/storefront/internal/config"
	"github.com/altmarket/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		NewAuthUseCase,
		NewCategoryUseCase,
		NewProductUseCase,
		NewOrderUseCase,
		newPaymentUseCase,
	),
)

type paymentParams struct {
	fx.In

	Payments repository.PaymentRepository
	Orders   repository.OrderRepository
	Gateway  gateway.Client
	Config   *config.Config
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Payments, p.Orders, p.Gateway, RetryPolicy{
		Attempts: p.Config.GatewayRetryAttempts,
		Backoff:  p.Config.GatewayRetryBackoff,
	})
}
