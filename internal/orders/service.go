package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

const notFoundMessage = "pedido no encontrado"

// Viewer is the caller on whose behalf orders are read or changed.
type Viewer struct {
	UserID  uuid.UUID
	IsStaff bool
}

// ListInput captures the order listing query.
type ListInput struct {
	Status     string
	Pagination pagination.Params
}

// StatusHook receives committed order status transitions.
type StatusHook interface {
	OrderStatusChanged(ctx context.Context, order models.Order, previous, current enums.OrderStatus)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order reads and staff status changes.
type Service interface {
	List(ctx context.Context, viewer Viewer, input ListInput) (pagination.Page[OrderDTO], error)
	Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, viewer Viewer, id uuid.UUID, status string) (*OrderDTO, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outbox.Emitter
	hook    StatusHook
	catalog config.CatalogConfig
}

// NewService builds the order service.
func NewService(repo Repository, tx txRunner, emitter outbox.Emitter, hook StatusHook, catalog config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{repo: repo, tx: tx, outbox: emitter, hook: hook, catalog: catalog}, nil
}

func (s *service) List(ctx context.Context, viewer Viewer, input ListInput) (pagination.Page[OrderDTO], error) {
	filters := ListFilters{}
	if !viewer.IsStaff {
		filters.UserID = &viewer.UserID
	}
	if input.Status != "" {
		status, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return pagination.Page[OrderDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "estado inválido").
				WithDetails(map[string]string{"status": "Debe ser pending, paid, shipped o delivered."})
		}
		filters.Status = &status
	}

	rows, window, total, err := s.repo.List(ctx, filters, input.Pagination, s.catalog.DefaultPageSize, s.catalog.MaxPageSize)
	if err != nil {
		return pagination.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return pagination.NewPage(window, total, out), nil
}

// Get returns the order to its owner or to staff. Other callers see not found.
func (s *service) Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	if !viewer.IsStaff && order.UserID != viewer.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) UpdateStatus(ctx context.Context, viewer Viewer, id uuid.UUID, raw string) (*OrderDTO, error) {
	if !viewer.IsStaff {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "solo el staff puede cambiar el estado")
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estado inválido").
			WithDetails(map[string]string{"status": "Debe ser pending, paid, shipped o delivered."})
	}

	var (
		order    models.Order
		previous enums.OrderStatus
	)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.FindForUpdate(ctx, id)
		if err != nil {
			return mapLoadError(err)
		}
		previous = locked.Status
		order = *locked
		if previous == status {
			return nil
		}
		if err := repo.UpdateStatus(ctx, id, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = status
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: viewer.UserID, Role: enums.UserRoleStaff.String()},
			Data: outbox.OrderStatusChangedEvent{
				OrderID:  order.ID,
				UserID:   order.UserID,
				Previous: previous,
				Current:  status,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	if s.hook != nil && previous != status {
		s.hook.OrderStatusChanged(ctx, order, previous, status)
	}
	return s.Get(ctx, viewer, id)
}

func mapLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}
