package handlers

import (
	"context"

	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
	"github.com/altmarket/storefront/internal/usecase"
)

// AuthFacade describes account and session capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, name, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (string, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, name string) (*model.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// CatalogFacade covers category and product management.
type CatalogFacade interface {
	CreateCategory(ctx context.Context, input usecase.CategoryInput) (*model.Category, error)
	Categories(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, int64, error)
	Category(ctx context.Context, id string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, input usecase.CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, input usecase.ProductInput) (*model.Product, error)
	Products(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	ProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, input usecase.ProductInput) (*model.Product, error)
	AdjustProductStock(ctx context.Context, id string, delta int64) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID string, items []usecase.PlaceOrderItem) (*model.Order, error)
	Orders(ctx context.Context, userID string, filter repository.OrderFilter) ([]model.Order, int64, error)
	Order(ctx context.Context, userID, orderID string) (*model.Order, error)
}

// PaymentFacade exposes the payment intent lifecycle.
type PaymentFacade interface {
	CreatePaymentIntent(ctx context.Context, userID, orderID string, amount float64, currency, description string) (*model.Payment, string, error)
	ConfirmPayment(ctx context.Context, userID, intentID, orderID string) (*model.Payment, error)
	Payments(ctx context.Context, userID string) ([]model.Payment, error)
	Payment(ctx context.Context, userID, paymentID string) (*model.Payment, error)
	PaymentByOrder(ctx context.Context, userID, orderID string) (*model.Payment, error)
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	PaymentFacade
}
