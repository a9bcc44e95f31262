package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/coupons"
	"github.com/carshop-ar/carshop-backend/internal/orders"
	"github.com/carshop-ar/carshop-backend/internal/parts"
	"github.com/carshop-ar/carshop-backend/internal/users"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
)

// Checkout results recorded on the checkout counter.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Counter records checkout outcomes.
type Counter interface {
	IncCheckout(result string)
}

// Service executes checkout orchestration.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req Request) (*orders.OrderDTO, error)
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	DB      txRunner
	Parts   *parts.Repository
	Coupons *coupons.Repository
	Orders  orders.Repository
	Outbox  outbox.Emitter
	Hook    parts.StockHook
	Counter Counter
	Logger  *logger.Logger
}

type service struct {
	db      txRunner
	parts   *parts.Repository
	coupons *coupons.Repository
	orders  orders.Repository
	outbox  outbox.Emitter
	hook    parts.StockHook
	counter Counter
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Parts == nil {
		return nil, fmt.Errorf("part repository required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		db:      params.DB,
		parts:   params.Parts,
		coupons: params.Coupons,
		orders:  params.Orders,
		outbox:  params.Outbox,
		hook:    params.Hook,
		counter: params.Counter,
		logg:    params.Logger,
		now:     time.Now,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req Request) (*orders.OrderDTO, error) {
	lines, err := normalizeLines(req.Items)
	if err != nil {
		s.count(ResultRejected)
		return nil, err
	}
	couponCode := ""
	if req.CouponCode != nil {
		couponCode = coupons.NormalizeCode(*req.CouponCode)
	}

	var (
		order         models.Order
		changes       []parts.StockChange
		expiredCoupon uuid.UUID
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		partRepo := s.parts.WithTx(tx)

		quantities, partIDs := aggregate(lines)
		locked, err := partRepo.FindManyForUpdate(ctx, partIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock parts")
		}
		byID := make(map[uuid.UUID]models.Part, len(locked))
		for _, part := range locked {
			byID[part.ID] = part
		}
		for _, id := range partIDs {
			part, ok := byID[id]
			if !ok {
				return unknownPart(id)
			}
			if part.Stock < quantities[id] {
				return insufficientStock(part)
			}
		}

		subtotal := decimal.Zero
		for _, line := range lines {
			subtotal = subtotal.Add(byID[line.PartID].Price.Mul(decimal.NewFromInt(int64(line.Qty))))
		}

		var coupon *models.Coupon
		discount := decimal.Zero
		if couponCode != "" {
			coupon, err = s.coupons.WithTx(tx).FindByCodeForUpdate(ctx, couponCode)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
			}
			expired, err := coupons.Check(coupon, s.now())
			if expired {
				expiredCoupon = coupon.ID
			}
			if err != nil {
				return err
			}
			discount = coupons.Discount(*coupon, subtotal)
		}

		created, err := s.createOrder(ctx, tx, userID, lines, byID, subtotal, discount, coupon)
		if err != nil {
			return err
		}

		for _, id := range partIDs {
			part := byID[id]
			qty := quantities[id]
			ok, err := partRepo.DecrementStock(ctx, id, qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return insufficientStock(part)
			}
			change := parts.StockChange{Part: part, Previous: part.Stock, Current: part.Stock - qty}
			change.Part.Stock = change.Current
			changes = append(changes, change)
			if err := s.outbox.Emit(ctx, tx, parts.StockChangedEvent(part, change.Previous, change.Current, parts.SourceCheckout)); err != nil {
				return err
			}
		}

		if coupon != nil {
			ok, err := s.coupons.WithTx(tx).IncrementUsage(ctx, coupon.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment coupon usage")
			}
			if !ok {
				return coupons.Rejection(coupons.ReasonExhausted)
			}
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: enums.UserRoleCustomer.String()},
			Data: outbox.OrderCreatedEvent{
				OrderID:        created.ID,
				UserID:         userID,
				Status:         created.Status,
				Total:          created.Total,
				DiscountAmount: created.DiscountAmount,
				CouponCode:     created.CouponCode,
				ItemCount:      len(created.Items),
			},
		}); err != nil {
			return err
		}
		order = *created
		return nil
	})
	if err != nil {
		changes = nil
		if expiredCoupon != uuid.Nil {
			s.deactivateCoupon(ctx, expiredCoupon)
		}
		if typed := pkgerrors.As(err); typed != nil {
			if pkgerrors.IsClientCode(typed.Code()) {
				s.count(ResultRejected)
			} else {
				s.count(ResultError)
			}
			return nil, err
		}
		s.count(ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout")
	}

	s.count(ResultSuccess)
	if s.hook != nil {
		for _, change := range changes {
			s.hook.StockChanged(ctx, change.Part, change.Previous, change.Current)
		}
	}

	loaded, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := orders.FromModel(*loaded)
	return &dto, nil
}

// createOrder writes the paid order, its shipping snapshot, and one item per line.
func (s *service) createOrder(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lines []Line, byID map[uuid.UUID]models.Part, subtotal, discount decimal.Decimal, coupon *models.Coupon) (*models.Order, error) {
	profile, err := users.NewRepository(tx).FindProfile(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	order := &models.Order{
		UserID:         userID,
		Status:         enums.OrderStatusPaid,
		Total:          total.Round(2),
		DiscountAmount: discount,
		Country:        users.CountryArgentina,
	}
	if profile != nil {
		order.Phone = profile.Phone
		order.DNI = profile.DNI
		order.AddressLine1 = profile.AddressLine1
		order.AddressLine2 = profile.AddressLine2
		order.City = profile.City
		order.Province = profile.Province
		order.PostalCode = profile.PostalCode
		if profile.Country != "" {
			order.Country = profile.Country
		}
	}
	if coupon != nil {
		code := coupon.Code
		order.CouponCode = &code
	}

	order.Items = make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		part := byID[line.PartID]
		partID := part.ID
		sku := ""
		if part.SKU != nil {
			sku = *part.SKU
		}
		order.Items = append(order.Items, models.OrderItem{
			PartID: &partID,
			Name:   part.Name,
			SKU:    sku,
			Price:  part.Price,
			Qty:    line.Qty,
			Brand:  part.Brand,
			Model:  part.Model,
			Year:   part.Year,
		})
	}

	if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

func (s *service) deactivateCoupon(ctx context.Context, id uuid.UUID) {
	if err := s.coupons.Deactivate(ctx, id); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithField(ctx, "coupon_id", id.String()), "failed to deactivate expired coupon", err)
	}
}

func (s *service) count(result string) {
	if s.counter != nil {
		s.counter.IncCheckout(result)
	}
}
