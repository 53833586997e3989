package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/internal/activity"
	"github.com/ekomart/ekomart-backend/internal/cart"
	"github.com/ekomart/ekomart-backend/internal/notifications"
	"github.com/ekomart/ekomart-backend/pkg/db"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

type taxComputer interface {
	ComputeTax(ctx context.Context, subtotal decimal.Decimal, country, state, zip string) (decimal.Decimal, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes customer and admin order operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*ListResult, error)
	AdminList(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
	Detail(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	PublicDetail(ctx context.Context, orderID uuid.UUID) (*PublicOrderView, error)
	Stats(ctx context.Context, userID uuid.UUID) (*Stats, error)
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*models.Order, error)
	UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, req StatusUpdateRequest) (*models.Order, error)
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo          Repository
	CartRepo      cart.Repository
	Products      productFinder
	Tax           taxComputer
	Notifications notifications.Service
	Activity      activity.Service
	Tx            db.TxRunner
	ShippingFee   decimal.Decimal
}

type service struct {
	repo          Repository
	cartRepo      cart.Repository
	products      productFinder
	tax           taxComputer
	notifications notifications.Service
	activity      activity.Service
	tx            db.TxRunner
	shippingFee   decimal.Decimal
}

// NewService wires the orders dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.Tax == nil {
		return nil, fmt.Errorf("tax computer is required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service is required")
	}
	if params.Activity == nil {
		return nil, fmt.Errorf("activity service is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:          params.Repo,
		cartRepo:      params.CartRepo,
		products:      params.Products,
		tax:           params.Tax,
		notifications: params.Notifications,
		activity:      params.Activity,
		tx:            params.Tx,
		shippingFee:   params.ShippingFee,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.list(ctx, &userID, params, filters)
}

func (s *service) AdminList(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	return s.list(ctx, nil, params, filters)
}

func (s *service) list(ctx context.Context, userID *uuid.UUID, params pagination.Params, filters ListFilters) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return &ListResult{
		Items:      rows,
		Pagination: pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Detail(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	return order, nil
}

func (s *service) PublicDetail(ctx context.Context, orderID uuid.UUID) (*PublicOrderView, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	return publicView(order), nil
}

// Stats runs the per-status counts and the spend sum in parallel.
func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	statuses := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusConfirmed,
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	}

	counts := make([]int64, len(statuses))
	var spent string

	group, groupCtx := errgroup.WithContext(ctx)
	for i, status := range statuses {
		i, status := i, status
		group.Go(func() error {
			count, err := s.repo.CountByStatus(groupCtx, userID, status)
			if err != nil {
				return err
			}
			counts[i] = count
			return nil
		})
	}
	group.Go(func() error {
		sum, err := s.repo.SumSpent(groupCtx, userID)
		if err != nil {
			return err
		}
		spent = sum
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collect order stats")
	}

	stats := &Stats{ByStatus: make(map[enums.OrderStatus]int64, len(statuses))}
	for i, status := range statuses {
		stats.ByStatus[status] = counts[i]
		stats.Total += counts[i]
	}
	totalSpent, err := decimal.NewFromString(spent)
	if err != nil {
		totalSpent = decimal.Zero
	}
	stats.TotalSpent = totalSpent
	return stats, nil
}

// Checkout converts the user's cart into an order inside one transaction:
// stock decrements, order + items, cart clear, notification, and audit entry
// commit together.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	userCart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	// Line names are snapshotted so later product edits never rewrite history.
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(userCart.Items))
	for _, line := range userCart.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains an unavailable product")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Variant:   line.Variant,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: lineTotal,
		})
	}

	shipping := req.ShippingAddress
	billing := shipping
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	tax, err := s.tax.ComputeTax(ctx, subtotal, shipping.Country, shipping.State, shipping.PostalCode)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     newOrderNumber(time.Now().UTC()),
		UserID:          &userID,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingFee:     s.shippingFee,
		Total:           subtotal.Add(tax).Add(s.shippingFee),
		ShippingAddress: shipping,
		BillingAddress:  billing,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, item := range items {
			affected, err := repo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("insufficient stock for %s", item.Name))
			}
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if _, err := s.cartRepo.WithTx(tx).ClearItems(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		if err := s.notifications.Notify(ctx, tx, notifications.NotifyInput{
			UserID:  userID,
			Type:    enums.NotificationTypeOrder,
			Title:   "Order placed",
			Message: fmt.Sprintf("Your order %s was placed.", order.OrderNumber),
		}); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx, activity.AppendInput{
			UserID:      userID,
			Action:      enums.ActivityActionCreate,
			Entity:      enums.ActivityEntityOrder,
			EntityID:    &order.ID,
			Description: fmt.Sprintf("order %s placed", order.OrderNumber),
			After:       types.JSONMap{"status": string(order.Status), "total": order.Total.String()},
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus applies the order state machine. The activity entry and the
// customer notification commit atomically with the transition.
func (s *service) UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, req StatusUpdateRequest) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	next, err := enums.ParseOrderStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	var nextPayment *enums.PaymentStatus
	if req.PaymentStatus != nil {
		parsed, err := enums.ParsePaymentStatus(strings.TrimSpace(*req.PaymentStatus))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		nextPayment = &parsed
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}
	if nextPayment != nil && !order.PaymentStatus.CanTransitionTo(*nextPayment) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move payment from %s to %s", order.PaymentStatus, *nextPayment))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		affected, err := repo.UpdateStatus(ctx, orderID, order.Status, next)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}
		if nextPayment != nil {
			affected, err := repo.UpdatePaymentStatus(ctx, orderID, order.PaymentStatus, *nextPayment)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "payment status changed concurrently")
			}
		}

		if order.UserID != nil {
			if err := s.notifications.Notify(ctx, tx, notifications.NotifyInput{
				UserID:  *order.UserID,
				Type:    enums.NotificationTypeOrder,
				Title:   "Order updated",
				Message: fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, next),
			}); err != nil {
				return err
			}
		}

		return s.activity.Append(ctx, tx, activity.AppendInput{
			UserID:      adminID,
			Action:      enums.ActivityActionStatusChange,
			Entity:      enums.ActivityEntityOrder,
			EntityID:    &orderID,
			Description: fmt.Sprintf("order %s moved to %s", order.OrderNumber, next),
			Before:      types.JSONMap{"status": string(order.Status)},
			After:       types.JSONMap{"status": string(next)},
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, orderID)
}

func newOrderNumber(now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		suffix = []byte{0, 0, 0, 0}
	}
	return fmt.Sprintf("EKM-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix)))
}
