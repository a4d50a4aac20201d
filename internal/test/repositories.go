package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[string]*model.User
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[string]*model.User),
	}
}

// Create registers user unless the email is already taken.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ByEmail[user.Email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored := *user
	s.ByEmail[user.Email] = &stored
	s.ByID[user.ID] = &stored
	return nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateProfile renames the stored user.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, id, name string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	user.Name = name
	copied := *user
	return &copied, nil
}

// UpdatePassword swaps the stored password hash.
func (s *UserRepositoryStub) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// Delete removes the user from both indexes.
func (s *UserRepositoryStub) Delete(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByEmail, user.Email)
	delete(s.ByID, id)
	return nil
}

// CategoryRepositoryStub allows tests to customize category behaviour.
type CategoryRepositoryStub struct {
	CreateFn    func(context.Context, *model.Category) error
	GetByIDFn   func(context.Context, string) (*model.Category, error)
	GetBySlugFn func(context.Context, string) (*model.Category, error)
	ListFn      func(context.Context, repository.CategoryFilter) ([]model.Category, int64, error)
	UpdateFn    func(context.Context, *model.Category) error
	DeleteFn    func(context.Context, string) error
}

func (s *CategoryRepositoryStub) Create(ctx context.Context, category *model.Category) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, category)
	}
	return nil
}

func (s *CategoryRepositoryStub) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return &model.Category{ID: id, Name: "category", Slug: "category", IsActive: true}, nil
}

func (s *CategoryRepositoryStub) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	if s.GetBySlugFn != nil {
		return s.GetBySlugFn(ctx, slug)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CategoryRepositoryStub) List(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, int64, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *CategoryRepositoryStub) Update(ctx context.Context, category *model.Category) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, category)
	}
	return nil
}

func (s *CategoryRepositoryStub) Delete(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// ProductRepositoryStub allows tests to customize product behaviour,
// including the stock ledger.
type ProductRepositoryStub struct {
	CreateFn      func(context.Context, *model.Product) error
	GetByIDFn     func(context.Context, string) (*model.Product, error)
	GetBySKUFn    func(context.Context, string) (*model.Product, error)
	ListFn        func(context.Context, repository.ProductFilter) ([]model.Product, int64, error)
	UpdateFn      func(context.Context, *model.Product) error
	DeleteFn      func(context.Context, string) error
	AdjustStockFn func(context.Context, string, int64) (int64, error)
}

func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, product)
	}
	return nil
}

func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "product", SKU: "sku-" + id, Price: 10, Stock: 100, IsActive: true}, nil
}

func (s *ProductRepositoryStub) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	if s.GetBySKUFn != nil {
		return s.GetBySKUFn(ctx, sku)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ProductRepositoryStub) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, product)
	}
	return nil
}

func (s *ProductRepositoryStub) Delete(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s *ProductRepositoryStub) AdjustStock(ctx context.Context, productID string, delta int64) (int64, error) {
	if s.AdjustStockFn != nil {
		return s.AdjustStockFn(ctx, productID, delta)
	}
	return delta, nil
}

// OrderRepositoryStub allows tests to customize order behaviour.
type OrderRepositoryStub struct {
	CreateFn            func(context.Context, *model.Order) error
	GetByIDFn           func(context.Context, string) (*model.Order, error)
	ListByUserFn        func(context.Context, string, repository.OrderFilter) ([]model.Order, int64, error)
	ReserveForPaymentFn func(context.Context, string, string, float64) (*model.Order, error)
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	return nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID string, filter repository.OrderFilter) ([]model.Order, int64, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID, filter)
	}
	return nil, 0, nil
}

func (s *OrderRepositoryStub) ReserveForPayment(ctx context.Context, orderID, userID string, amount float64) (*model.Order, error) {
	if s.ReserveForPaymentFn != nil {
		return s.ReserveForPaymentFn(ctx, orderID, userID, amount)
	}
	return &model.Order{ID: orderID, UserID: userID, Total: amount, Status: model.OrderStatusPending}, nil
}

// PaymentRepositoryStub allows tests to customize payment behaviour.
type PaymentRepositoryStub struct {
	CreateFn               func(context.Context, *model.Payment) error
	GetByIDFn              func(context.Context, string) (*model.Payment, error)
	GetByProviderIntentFn  func(context.Context, string) (*model.Payment, error)
	GetByOrderFn           func(context.Context, string) (*model.Payment, error)
	ListByUserFn           func(context.Context, string) ([]model.Payment, error)
	AttachProviderIntentFn func(context.Context, string, string) error
	TransitionFn           func(context.Context, string, model.PaymentStatus, model.PaymentStatus, *string) (*model.Payment, error)
	CompleteWithStockFn    func(context.Context, string, string, string, []model.OrderItem) (*model.Payment, error)
	SelectStaleFn          func(context.Context, time.Duration, int) ([]model.Payment, error)
}

func (s *PaymentRepositoryStub) Create(ctx context.Context, payment *model.Payment) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, payment)
	}
	return nil
}

func (s *PaymentRepositoryStub) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PaymentRepositoryStub) GetByProviderIntent(ctx context.Context, providerID string) (*model.Payment, error) {
	if s.GetByProviderIntentFn != nil {
		return s.GetByProviderIntentFn(ctx, providerID)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PaymentRepositoryStub) GetByOrder(ctx context.Context, orderID string) (*model.Payment, error) {
	if s.GetByOrderFn != nil {
		return s.GetByOrderFn(ctx, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PaymentRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *PaymentRepositoryStub) AttachProviderIntent(ctx context.Context, paymentID, providerID string) error {
	if s.AttachProviderIntentFn != nil {
		return s.AttachProviderIntentFn(ctx, paymentID, providerID)
	}
	return nil
}

func (s *PaymentRepositoryStub) Transition(ctx context.Context, paymentID string, from, to model.PaymentStatus, transactionID *string) (*model.Payment, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, paymentID, from, to, transactionID)
	}
	return &model.Payment{ID: paymentID, Status: to, TransactionID: transactionID}, nil
}

func (s *PaymentRepositoryStub) CompleteWithStock(ctx context.Context, paymentID, orderID, transactionID string, items []model.OrderItem) (*model.Payment, error) {
	if s.CompleteWithStockFn != nil {
		return s.CompleteWithStockFn(ctx, paymentID, orderID, transactionID, items)
	}
	return &model.Payment{ID: paymentID, OrderID: orderID, Status: model.PaymentStatusCompleted, TransactionID: &transactionID}, nil
}

func (s *PaymentRepositoryStub) SelectStaleForReconciliation(ctx context.Context, age time.Duration, limit int) ([]model.Payment, error) {
	if s.SelectStaleFn != nil {
		return s.SelectStaleFn(ctx, age, limit)
	}
	return nil, nil
}
