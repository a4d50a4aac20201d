package app

import (
	"context"
	"time"

	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
	"github.com/altmarket/storefront/internal/usecase"
)

// StoreFacade aggregates the application use cases behind one surface used
// by the HTTP handlers and the reconciliation worker.
type StoreFacade struct {
	auth       *usecase.AuthUseCase
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	orders     *usecase.OrderUseCase
	payments   *usecase.PaymentUseCase
}

// NewStoreFacade constructs the facade over all use cases.
func NewStoreFacade(
	auth *usecase.AuthUseCase,
	categories *usecase.CategoryUseCase,
	products *usecase.ProductUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
) *StoreFacade {
	return &StoreFacade{
		auth:       auth,
		categories: categories,
		products:   products,
		orders:     orders,
		payments:   payments,
	}
}

// --- auth and profile ---

func (f *StoreFacade) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	return f.auth.Register(ctx, email, name, password)
}

func (f *StoreFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *StoreFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *StoreFacade) Profile(ctx context.Context, userID string) (*model.User, error) {
	return f.auth.GetByID(ctx, userID)
}

func (f *StoreFacade) UpdateProfile(ctx context.Context, userID, name string) (*model.User, error) {
	return f.auth.UpdateProfile(ctx, userID, name)
}

func (f *StoreFacade) ChangePassword(ctx context.Context, userID, current, next string) error {
	return f.auth.ChangePassword(ctx, userID, current, next)
}

func (f *StoreFacade) DeleteAccount(ctx context.Context, userID string) error {
	return f.auth.DeleteAccount(ctx, userID)
}

// --- catalog ---

func (f *StoreFacade) CreateCategory(ctx context.Context, input usecase.CategoryInput) (*model.Category, error) {
	return f.categories.Create(ctx, input)
}

func (f *StoreFacade) Categories(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, int64, error) {
	return f.categories.List(ctx, filter)
}

func (f *StoreFacade) Category(ctx context.Context, id string) (*model.Category, error) {
	return f.categories.Get(ctx, id)
}

func (f *StoreFacade) UpdateCategory(ctx context.Context, id string, input usecase.CategoryInput) (*model.Category, error) {
	return f.categories.Update(ctx, id, input)
}

func (f *StoreFacade) DeleteCategory(ctx context.Context, id string) error {
	return f.categories.Delete(ctx, id)
}

func (f *StoreFacade) CreateProduct(ctx context.Context, input usecase.ProductInput) (*model.Product, error) {
	return f.products.Create(ctx, input)
}

func (f *StoreFacade) Products(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	return f.products.List(ctx, filter)
}

func (f *StoreFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.products.Get(ctx, id)
}

func (f *StoreFacade) ProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return f.products.GetBySKU(ctx, sku)
}

func (f *StoreFacade) UpdateProduct(ctx context.Context, id string, input usecase.ProductInput) (*model.Product, error) {
	return f.products.Update(ctx, id, input)
}

func (f *StoreFacade) AdjustProductStock(ctx context.Context, id string, delta int64) (*model.Product, error) {
	return f.products.AdjustStock(ctx, id, delta)
}

func (f *StoreFacade) DeleteProduct(ctx context.Context, id string) error {
	return f.products.Delete(ctx, id)
}

// --- orders ---

func (f *StoreFacade) PlaceOrder(ctx context.Context, userID string, items []usecase.PlaceOrderItem) (*model.Order, error) {
	return f.orders.Place(ctx, userID, items)
}

func (f *StoreFacade) Orders(ctx context.Context, userID string, filter repository.OrderFilter) ([]model.Order, int64, error) {
	return f.orders.ListByUser(ctx, userID, filter)
}

func (f *StoreFacade) Order(ctx context.Context, userID, orderID string) (*model.Order, error) {
	return f.orders.Get(ctx, userID, orderID)
}

// --- payments ---

func (f *StoreFacade) CreatePaymentIntent(ctx context.Context, userID, orderID string, amount float64, currency, description string) (*model.Payment, string, error) {
	return f.payments.CreateIntent(ctx, userID, orderID, amount, currency, description)
}

func (f *StoreFacade) ConfirmPayment(ctx context.Context, userID, intentID, orderID string) (*model.Payment, error) {
	return f.payments.Confirm(ctx, userID, intentID, orderID)
}

func (f *StoreFacade) Payments(ctx context.Context, userID string) ([]model.Payment, error) {
	return f.payments.ListByUser(ctx, userID)
}

func (f *StoreFacade) Payment(ctx context.Context, userID, paymentID string) (*model.Payment, error) {
	return f.payments.Get(ctx, userID, paymentID)
}

func (f *StoreFacade) PaymentByOrder(ctx context.Context, userID, orderID string) (*model.Payment, error) {
	return f.payments.GetByOrder(ctx, userID, orderID)
}

// --- reconciliation ---

func (f *StoreFacade) StalePayments(ctx context.Context, age time.Duration, limit int) ([]model.Payment, error) {
	return f.payments.SelectStale(ctx, age, limit)
}

func (f *StoreFacade) ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	return f.payments.Reconcile(ctx, payment)
}
