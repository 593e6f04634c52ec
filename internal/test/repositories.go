package test

import (
	"context"

	domainErrors "github.com/osoko/commerce/internal/domain/errors"
	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
)

// OrderUpdateCall stores information about Update invocations.
type OrderUpdateCall struct {
	OrderID int64
	Patch   repository.OrderPatch
}

// PaymentStatusCall stores information about UpdatePaymentStatus invocations.
type PaymentStatusCall struct {
	OrderID   int64
	Status    model.PaymentStatus
	Reference *string
}

// OrderRepositoryStub allows tests to customize order repository behaviour.
type OrderRepositoryStub struct {
	CreateFn                   func(context.Context, *model.Order, []model.OrderItem) (*model.Order, error)
	GetByIDFn                  func(context.Context, int64) (*model.Order, error)
	GetByReferenceFn           func(context.Context, string) (*model.Order, error)
	UpdateFn                   func(context.Context, int64, repository.OrderPatch) error
	UpdatePaymentStatusFn      func(context.Context, int64, model.PaymentStatus, *string) error
	ListFn                     func(context.Context, repository.OrderFilter) ([]model.Order, int64, error)
	SoftDeleteFn               func(context.Context, int64) error
	SelectUnresolvedPaymentsFn func(context.Context, int) ([]model.Order, error)

	Orders       []model.Order
	Unresolved   []model.Order
	Created      []*model.Order
	CreatedItems [][]model.OrderItem
	UpdateCalls  []OrderUpdateCall
	PaymentCalls []PaymentStatusCall
	Deleted      []int64
	NextID       int64
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, items)
	}
	if s.NextID == 0 {
		s.NextID = 1
	}
	stored := *order
	stored.ID = s.NextID
	s.NextID++
	stored.Items = make([]model.OrderItem, len(items))
	for i, item := range items {
		item.ID = int64(i + 1)
		item.OrderID = stored.ID
		stored.Items[i] = item
	}
	s.Created = append(s.Created, &stored)
	s.CreatedItems = append(s.CreatedItems, items)
	s.Orders = append(s.Orders, stored)
	return &stored, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByReference returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	if s.GetByReferenceFn != nil {
		return s.GetByReferenceFn(ctx, reference)
	}
	for _, o := range s.Orders {
		if o.Reference == reference {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Update records patch invocations and applies them to stored orders.
func (s *OrderRepositoryStub) Update(ctx context.Context, id int64, patch repository.OrderPatch) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{OrderID: id, Patch: patch})
	for i := range s.Orders {
		if s.Orders[i].ID != id {
			continue
		}
		if patch.Status != nil {
			s.Orders[i].Status = *patch.Status
		}
		if patch.PaymentStatus != nil {
			s.Orders[i].PaymentStatus = *patch.PaymentStatus
		}
		if patch.PaymentReference != nil {
			ref := *patch.PaymentReference
			s.Orders[i].PaymentReference = &ref
		}
		if patch.DeliveryAddress != nil {
			addr := *patch.DeliveryAddress
			s.Orders[i].DeliveryAddress = &addr
		}
		return nil
	}
	return domainErrors.ErrNotFound
}

// UpdatePaymentStatus records payment transitions.
func (s *OrderRepositoryStub) UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus, reference *string) error {
	if s.UpdatePaymentStatusFn != nil {
		return s.UpdatePaymentStatusFn(ctx, id, status, reference)
	}
	s.PaymentCalls = append(s.PaymentCalls, PaymentStatusCall{OrderID: id, Status: status, Reference: reference})
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			s.Orders[i].PaymentStatus = status
			if reference != nil {
				ref := *reference
				s.Orders[i].PaymentReference = &ref
			}
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// List returns configured orders.
func (s *OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return s.Orders, int64(len(s.Orders)), nil
}

// SoftDelete records deletion requests.
func (s *OrderRepositoryStub) SoftDelete(ctx context.Context, id int64) error {
	if s.SoftDeleteFn != nil {
		return s.SoftDeleteFn(ctx, id)
	}
	s.Deleted = append(s.Deleted, id)
	return nil
}

// SelectUnresolvedPayments returns orders awaiting verification.
func (s *OrderRepositoryStub) SelectUnresolvedPayments(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectUnresolvedPaymentsFn != nil {
		return s.SelectUnresolvedPaymentsFn(ctx, limit)
	}
	return s.Unresolved, nil
}

// StockAdjustment stores information about AdjustStock invocations.
type StockAdjustment struct {
	ProductID int64
	Quantity  int32
	Direction model.StockDirection
}

// ProductRepositoryStub serves catalog data from an in-memory map.
type ProductRepositoryStub struct {
	Products    map[int64]*model.Product
	CheckFn     func(context.Context, int64, int32) (bool, int32, error)
	AdjustFn    func(context.Context, int64, int32, model.StockDirection) error
	Adjustments []StockAdjustment
}

// NewProductRepositoryStub constructs stub repository with initialized map.
func NewProductRepositoryStub(products ...*model.Product) *ProductRepositoryStub {
	stub := &ProductRepositoryStub{Products: make(map[int64]*model.Product)}
	for _, p := range products {
		stub.Products[p.ID] = p
	}
	return stub
}

// GetByID fetches product by identifier or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if p, ok := s.Products[id]; ok {
		return p, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CheckAvailability compares requested quantity against stored stock.
func (s *ProductRepositoryStub) CheckAvailability(ctx context.Context, id int64, quantity int32) (bool, int32, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, id, quantity)
	}
	p, ok := s.Products[id]
	if !ok {
		return false, 0, domainErrors.ErrNotFound
	}
	return p.Stock >= quantity, p.Stock, nil
}

// AdjustStock records adjustments and mutates stored stock.
func (s *ProductRepositoryStub) AdjustStock(ctx context.Context, id int64, quantity int32, direction model.StockDirection) error {
	if s.AdjustFn != nil {
		return s.AdjustFn(ctx, id, quantity, direction)
	}
	p, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if direction == model.StockDecrease {
		if p.Stock < quantity {
			return domainErrors.InsufficientStockError{ProductID: id, Requested: quantity, Available: p.Stock}
		}
		p.Stock -= quantity
	} else {
		p.Stock += quantity
	}
	s.Adjustments = append(s.Adjustments, StockAdjustment{ProductID: id, Quantity: quantity, Direction: direction})
	return nil
}

// CustomerRepositoryStub stores customers in-memory for tests.
type CustomerRepositoryStub struct {
	Customers map[string]*model.Customer
	Next      int64
	Err       error
}

// NewCustomerRepositoryStub constructs stub repository with initialized map.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{Customers: make(map[string]*model.Customer), Next: 1}
}

// GetByEmail fetches customer by email or returns not found.
func (s *CustomerRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if c, ok := s.Customers[email]; ok {
		return c, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Create registers customer unless already exists or stub has explicit error.
func (s *CustomerRepositoryStub) Create(ctx context.Context, email, name, phone, passwordHash string) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Customers == nil {
		s.Customers = make(map[string]*model.Customer)
	}
	if _, exists := s.Customers[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	customer := &model.Customer{ID: s.Next, Email: email, Name: name, Phone: phone, PasswordHash: passwordHash}
	s.Next++
	s.Customers[email] = customer
	return customer, nil
}

// DeliveryRepositoryStub serves delivery options from an in-memory map.
type DeliveryRepositoryStub struct {
	Options map[int64]*model.DeliveryOption
}

// NewDeliveryRepositoryStub constructs stub repository with initialized map.
func NewDeliveryRepositoryStub(options ...*model.DeliveryOption) *DeliveryRepositoryStub {
	stub := &DeliveryRepositoryStub{Options: make(map[int64]*model.DeliveryOption)}
	for _, opt := range options {
		stub.Options[opt.ID] = opt
	}
	return stub
}

// GetByID fetches delivery option by identifier or returns not found.
func (s *DeliveryRepositoryStub) GetByID(ctx context.Context, id int64) (*model.DeliveryOption, error) {
	if opt, ok := s.Options[id]; ok {
		return opt, nil
	}
	return nil, domainErrors.ErrNotFound
}
