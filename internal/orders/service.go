package orders

import (
	"context"

	"github.com/AliCapone21/nonkabob-guliston/internal/realtime"
	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	"github.com/AliCapone21/nonkabob-guliston/internal/users"
	"github.com/AliCapone21/nonkabob-guliston/pkg/db/models"
	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	"github.com/AliCapone21/nonkabob-guliston/pkg/metrics"
	"github.com/AliCapone21/nonkabob-guliston/pkg/pagination"
)

const (
	outcomeAccepted           = "accepted"
	outcomeUnauthenticated    = "unauthenticated"
	outcomeEmptyCart          = "empty_cart"
	outcomeProfileIncomplete  = "profile_incomplete"
	outcomePersistenceFailure = "persistence_failure"
)

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo     Repository
	Profiles users.Service
	Feed     realtime.Feed
	Logg     *logger.Logger
	Stats    *metrics.OrderMetrics
}

// Service exposes the storefront order operations.
type Service interface {
	Submit(ctx context.Context, identity telegram.Identity, cartSession CartSession) (*OrderDTO, error)
	History(ctx context.Context, identity telegram.Identity, params pagination.Params) (*OrderPageDTO, error)
	ClearAll(ctx context.Context) error
}

type service struct {
	repo     Repository
	profiles users.Service
	feed     realtime.Feed
	logg     *logger.Logger
	stats    *metrics.OrderMetrics
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile service is required")
	}
	if params.Feed == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "realtime feed is required")
	}
	return &service{
		repo:     params.Repo,
		profiles: params.Profiles,
		feed:     params.Feed,
		logg:     params.Logg,
		stats:    params.Stats,
	}, nil
}

// Submit runs the checkout workflow: identity, cart, profile gate,
// order header, line items, clear, notify. The header and items are
// written separately without a wrapping transaction: a mid-flight
// failure leaves an orphaned pending header the dashboard can cancel.
func (s *service) Submit(ctx context.Context, identity telegram.Identity, cartSession CartSession) (*OrderDTO, error) {
	if !identity.HasUser() {
		s.stats.IncSubmitted(outcomeUnauthenticated)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	items := cartSession.Items()
	if len(items) == 0 {
		s.stats.IncSubmitted(outcomeEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	complete, profile, err := s.profiles.CheckComplete(ctx, identity)
	if err != nil {
		s.stats.IncSubmitted(outcomePersistenceFailure)
		return nil, err
	}
	if !complete {
		s.stats.IncSubmitted(outcomeProfileIncomplete)
		return nil, pkgerrors.New(pkgerrors.CodeProfileIncomplete, "profile is incomplete").
			WithDetails(map[string]any{"redirect": "/profile"})
	}

	var total int64
	for _, item := range items {
		total += item.Product.Price * int64(item.Quantity)
	}

	order := &models.Order{
		Status:           enums.OrderStatusPending,
		TotalPrice:       total,
		CustomerName:     profile.FullName,
		CustomerPhone:    profile.PhoneNumber,
		DeliveryLocation: profile.AddressText,
		TelegramUserID:   identity.UserID,
	}
	if _, err := s.repo.CreateOrder(ctx, order); err != nil {
		s.stats.IncSubmitted(outcomePersistenceFailure)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	lineItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, models.OrderItem{
			OrderID:     order.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.Price,
		})
	}
	if err := s.repo.CreateOrderItems(ctx, lineItems); err != nil {
		// the header stays behind; staff cancel it from the dashboard
		s.stats.IncSubmitted(outcomePersistenceFailure)
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "order_id", order.ID), "order items failed after header insert", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
	}
	order.Items = lineItems

	cartSession.ClearAll()
	s.publish(ctx, realtime.Event{Table: "orders", Action: "INSERT", OrderID: order.ID})
	s.stats.IncSubmitted(outcomeAccepted)

	dto := FromModel(order)
	return &dto, nil
}

// History lists the identity's orders, newest first. Guests get an
// empty page rather than an error.
func (s *service) History(ctx context.Context, identity telegram.Identity, params pagination.Params) (*OrderPageDTO, error) {
	if !identity.HasUser() {
		return &OrderPageDTO{Orders: []OrderDTO{}}, nil
	}

	page, err := s.repo.ListByTelegramUser(ctx, identity.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// ClearAll wipes the order tables and notifies dashboards.
func (s *service) ClearAll(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear orders")
	}
	s.publish(ctx, realtime.Event{Table: "orders", Action: "TRUNCATE"})
	return nil
}

// publish is best-effort: a feed outage must not fail a placed order.
func (s *service) publish(ctx context.Context, event realtime.Event) {
	if err := s.feed.Publish(ctx, event); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "order_id", event.OrderID), "realtime publish failed")
		}
		return
	}
	s.stats.IncPublished()
}
