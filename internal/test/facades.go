package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/altmarket/storefront/internal/adapter/gateway"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
	"github.com/altmarket/storefront/internal/usecase"
)

// GatewayStub simulates the external payment provider.
type GatewayStub struct {
	mu              sync.Mutex
	CreateIntentFn  func(context.Context, gateway.CreateIntentRequest) (*model.RemoteIntent, error)
	RetrieveFn      func(context.Context, string) (*model.RemoteIntent, error)
	CreateCalls     int32
	RetrieveCalls   int32
	CreatedRequests []gateway.CreateIntentRequest
}

// CreateIntent records the call and delegates to the override.
func (s *GatewayStub) CreateIntent(ctx context.Context, req gateway.CreateIntentRequest) (*model.RemoteIntent, error) {
	atomic.AddInt32(&s.CreateCalls, 1)
	s.mu.Lock()
	s.CreatedRequests = append(s.CreatedRequests, req)
	s.mu.Unlock()
	if s.CreateIntentFn != nil {
		return s.CreateIntentFn(ctx, req)
	}
	return &model.RemoteIntent{
		ProviderID:   "pi_stub",
		ClientSecret: "pi_stub_secret",
		Status:       model.RemoteStatusRequiresAction,
	}, nil
}

// RetrieveIntent records the call and delegates to the override.
func (s *GatewayStub) RetrieveIntent(ctx context.Context, providerID string) (*model.RemoteIntent, error) {
	atomic.AddInt32(&s.RetrieveCalls, 1)
	if s.RetrieveFn != nil {
		return s.RetrieveFn(ctx, providerID)
	}
	return &model.RemoteIntent{ProviderID: providerID, Status: model.RemoteStatusSucceeded}, nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn       func(context.Context, string, string, string) (*model.User, string, error)
	AuthenticateFn   func(context.Context, string, string) (*model.User, string, error)
	ParseFn          func(string) (string, error)
	ProfileFn        func(context.Context, string) (*model.User, error)
	UpdateProfileFn  func(context.Context, string, string) (*model.User, error)
	ChangePasswordFn func(context.Context, string, string, string) error
	DeleteAccountFn  func(context.Context, string) error
}

func (s AuthFacadeStub) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, name, password)
	}
	return &model.User{ID: "user-1", Email: email, Name: name}, "token", nil
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: "user-1", Email: email}, "token", nil
}

func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", nil
}

func (s AuthFacadeStub) Profile(ctx context.Context, userID string) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Email: "user@example.com"}, nil
}

func (s AuthFacadeStub) UpdateProfile(ctx context.Context, userID, name string) (*model.User, error) {
	if s.UpdateProfileFn != nil {
		return s.UpdateProfileFn(ctx, userID, name)
	}
	return &model.User{ID: userID, Name: name}, nil
}

func (s AuthFacadeStub) ChangePassword(ctx context.Context, userID, current, next string) error {
	if s.ChangePasswordFn != nil {
		return s.ChangePasswordFn(ctx, userID, current, next)
	}
	return nil
}

func (s AuthFacadeStub) DeleteAccount(ctx context.Context, userID string) error {
	if s.DeleteAccountFn != nil {
		return s.DeleteAccountFn(ctx, userID)
	}
	return nil
}

// CatalogFacadeStub simulates category and product management.
type CatalogFacadeStub struct {
	CreateCategoryFn func(context.Context, usecase.CategoryInput) (*model.Category, error)
	CategoriesFn     func(context.Context, repository.CategoryFilter) ([]model.Category, int64, error)
	CategoryFn       func(context.Context, string) (*model.Category, error)
	UpdateCategoryFn func(context.Context, string, usecase.CategoryInput) (*model.Category, error)
	DeleteCategoryFn func(context.Context, string) error

	CreateProductFn func(context.Context, usecase.ProductInput) (*model.Product, error)
	ProductsFn      func(context.Context, repository.ProductFilter) ([]model.Product, int64, error)
	ProductFn       func(context.Context, string) (*model.Product, error)
	ProductBySKUFn  func(context.Context, string) (*model.Product, error)
	UpdateProductFn func(context.Context, string, usecase.ProductInput) (*model.Product, error)
	AdjustStockFn   func(context.Context, string, int64) (*model.Product, error)
	DeleteProductFn func(context.Context, string) error
}

func (s CatalogFacadeStub) CreateCategory(ctx context.Context, input usecase.CategoryInput) (*model.Category, error) {
	if s.CreateCategoryFn != nil {
		return s.CreateCategoryFn(ctx, input)
	}
	return &model.Category{ID: "cat-1", Name: input.Name, Slug: input.Slug}, nil
}

func (s CatalogFacadeStub) Categories(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, int64, error) {
	if s.CategoriesFn != nil {
		return s.CategoriesFn(ctx, filter)
	}
	return []model.Category{{ID: "cat-1", Name: "category"}}, 1, nil
}

func (s CatalogFacadeStub) Category(ctx context.Context, id string) (*model.Category, error) {
	if s.CategoryFn != nil {
		return s.CategoryFn(ctx, id)
	}
	return &model.Category{ID: id, Name: "category"}, nil
}

func (s CatalogFacadeStub) UpdateCategory(ctx context.Context, id string, input usecase.CategoryInput) (*model.Category, error) {
	if s.UpdateCategoryFn != nil {
		return s.UpdateCategoryFn(ctx, id, input)
	}
	return &model.Category{ID: id, Name: input.Name}, nil
}

func (s CatalogFacadeStub) DeleteCategory(ctx context.Context, id string) error {
	if s.DeleteCategoryFn != nil {
		return s.DeleteCategoryFn(ctx, id)
	}
	return nil
}

func (s CatalogFacadeStub) CreateProduct(ctx context.Context, input usecase.ProductInput) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, input)
	}
	return &model.Product{ID: "prod-1", Name: input.Name, SKU: input.SKU}, nil
}

func (s CatalogFacadeStub) Products(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, filter)
	}
	return []model.Product{{ID: "prod-1", Name: "product"}}, 1, nil
}

func (s CatalogFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "product"}, nil
}

func (s CatalogFacadeStub) ProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	if s.ProductBySKUFn != nil {
		return s.ProductBySKUFn(ctx, sku)
	}
	return &model.Product{ID: "prod-1", Name: "product", SKU: sku, IsActive: true}, nil
}

func (s CatalogFacadeStub) UpdateProduct(ctx context.Context, id string, input usecase.ProductInput) (*model.Product, error) {
	if s.UpdateProductFn != nil {
		return s.UpdateProductFn(ctx, id, input)
	}
	return &model.Product{ID: id, Name: input.Name}, nil
}

func (s CatalogFacadeStub) AdjustProductStock(ctx context.Context, id string, delta int64) (*model.Product, error) {
	if s.AdjustStockFn != nil {
		return s.AdjustStockFn(ctx, id, delta)
	}
	return &model.Product{ID: id, Stock: delta}, nil
}

func (s CatalogFacadeStub) DeleteProduct(ctx context.Context, id string) error {
	if s.DeleteProductFn != nil {
		return s.DeleteProductFn(ctx, id)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, string, []usecase.PlaceOrderItem) (*model.Order, error)
	OrdersFn func(context.Context, string, repository.OrderFilter) ([]model.Order, int64, error)
	OrderFn  func(context.Context, string, string) (*model.Order, error)
}

func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID string, items []usecase.PlaceOrderItem) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, items)
	}
	return &model.Order{ID: "order-1", UserID: userID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) Orders(ctx context.Context, userID string, filter repository.OrderFilter) ([]model.Order, int64, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID, filter)
	}
	return []model.Order{{ID: "order-1", UserID: userID}}, 1, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, userID, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID}, nil
}

// PaymentFacadeStub simulates payment endpoints.
type PaymentFacadeStub struct {
	CreateIntentFn   func(context.Context, string, string, float64, string, string) (*model.Payment, string, error)
	ConfirmFn        func(context.Context, string, string, string) (*model.Payment, error)
	PaymentsFn       func(context.Context, string) ([]model.Payment, error)
	PaymentFn        func(context.Context, string, string) (*model.Payment, error)
	PaymentByOrderFn func(context.Context, string, string) (*model.Payment, error)
}

func (s PaymentFacadeStub) CreatePaymentIntent(ctx context.Context, userID, orderID string, amount float64, currency, description string) (*model.Payment, string, error) {
	if s.CreateIntentFn != nil {
		return s.CreateIntentFn(ctx, userID, orderID, amount, currency, description)
	}
	return &model.Payment{ID: "pay-1", OrderID: orderID, UserID: userID, Amount: amount, Status: model.PaymentStatusPending}, "secret", nil
}

func (s PaymentFacadeStub) ConfirmPayment(ctx context.Context, userID, intentID, orderID string) (*model.Payment, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, userID, intentID, orderID)
	}
	return &model.Payment{ID: "pay-1", OrderID: orderID, UserID: userID, Status: model.PaymentStatusCompleted}, nil
}

func (s PaymentFacadeStub) Payments(ctx context.Context, userID string) ([]model.Payment, error) {
	if s.PaymentsFn != nil {
		return s.PaymentsFn(ctx, userID)
	}
	return nil, nil
}

func (s PaymentFacadeStub) Payment(ctx context.Context, userID, paymentID string) (*model.Payment, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, userID, paymentID)
	}
	return &model.Payment{ID: paymentID, UserID: userID}, nil
}

func (s PaymentFacadeStub) PaymentByOrder(ctx context.Context, userID, orderID string) (*model.Payment, error) {
	if s.PaymentByOrderFn != nil {
		return s.PaymentByOrderFn(ctx, userID, orderID)
	}
	return &model.Payment{ID: "pay-1", OrderID: orderID, UserID: userID}, nil
}

// StoreFacadeStub aggregates facade dependencies for HTTP layer tests.
type StoreFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
}

// ReconcilerFacadeStub drives the reconciliation worker in tests.
type ReconcilerFacadeStub struct {
	StaleFn     func(context.Context, time.Duration, int) ([]model.Payment, error)
	ReconcileFn func(context.Context, *model.Payment) (*model.Payment, error)

	mu         sync.Mutex
	Reconciled []string
}

// ReconciledCount reports how many payments were handed to ReconcilePayment.
func (s *ReconcilerFacadeStub) ReconciledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Reconciled)
}

func (s *ReconcilerFacadeStub) StalePayments(ctx context.Context, age time.Duration, limit int) ([]model.Payment, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, age, limit)
	}
	return nil, nil
}

func (s *ReconcilerFacadeStub) ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	s.mu.Lock()
	s.Reconciled = append(s.Reconciled, payment.ID)
	s.mu.Unlock()
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, payment)
	}
	settled := *payment
	settled.Status = model.PaymentStatusCompleted
	return &settled, nil
}
