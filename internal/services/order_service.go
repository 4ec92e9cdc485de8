package services

import (
	"context"
	"os"
	"time"

	"shop-service/internal/domain"
	rabbit "shop-service/internal/infra/rabbitmq"
	"shop-service/internal/metrics"
	"shop-service/internal/repository"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type OrderService struct {
	tx        repository.TxManager
	orders    repository.OrderRepository
	publisher rabbit.PublisherInterface
	metrics   *metrics.AppMetrics
}

func NewOrderService(tx repository.TxManager, orders repository.OrderRepository, pub rabbit.PublisherInterface, m *metrics.AppMetrics) *OrderService {
	return &OrderService{
		tx:        tx,
		orders:    orders,
		publisher: pub,
		metrics:   m,
	}
}

// PlaceOrder validates every requested line against live stock inside one
// unit of work, decrements stock, and creates the order with prices captured
// at validation time. Any failing line aborts the whole attempt; the error
// carries the index of the first failing line.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint64, lines []domain.LineRequest) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.E(domain.KindValidation, "items array is required")
	}
	for i, l := range lines {
		if l.ItemID == 0 || l.Quantity <= 0 {
			return nil, domain.LineE(domain.KindValidation, i, "invalid item at index %d", i)
		}
	}

	var (
		order       *domain.Order
		stockEvents []domain.ItemStockChangedEvent
	)
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		stockEvents = stockEvents[:0]
		orderLines := make([]domain.OrderLine, 0, len(lines))
		var total float64

		for i, l := range lines {
			item, err := uow.Items().FindForUpdate(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil || !item.IsActive {
				return domain.LineE(domain.KindNotFound, i, "item not found at index %d", i)
			}
			if item.Stock < l.Quantity {
				return domain.LineE(domain.KindConflict, i, "insufficient stock at index %d", i)
			}
			if err := uow.Items().AdjustStock(ctx, item.ID, -l.Quantity); err != nil {
				return err
			}

			orderLines = append(orderLines, domain.OrderLine{
				ItemID:   item.ID,
				Quantity: l.Quantity,
				Price:    item.Price,
			})
			total += item.Price * float64(l.Quantity)
			stockEvents = append(stockEvents, domain.ItemStockChangedEvent{
				ItemID: item.ID,
				Delta:  -l.Quantity,
				Stock:  item.Stock - l.Quantity,
			})
		}

		order = &domain.Order{
			UserID:      userID,
			Lines:       orderLines,
			TotalAmount: total,
			Status:      domain.StatusPending,
			CreatedAt:   time.Now(),
		}
		return uow.Orders().Create(ctx, order)
	})
	if err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			s.metrics.RecordStockConflict(ctx)
		}
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx, order.TotalAmount)
	s.publish(domain.TopicOrderCreated, domain.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemsCount:  len(order.Lines),
		CreatedAt:   order.CreatedAt,
	})
	for _, evt := range stockEvents {
		s.publish(domain.TopicItemStockChanged, evt)
	}

	return order, nil
}

// UpdateStatus moves an order along the status state machine. Cancelling
// restocks every line in the same unit of work, at most once per order;
// cancelling an already-cancelled order is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, next domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidStatus(next) {
		return nil, domain.E(domain.KindValidation, "invalid status %q", next)
	}

	var (
		updated     *domain.Order
		from        domain.OrderStatus
		noop        bool
		stockEvents []domain.ItemStockChangedEvent
	)
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		stockEvents = stockEvents[:0]
		noop = false

		order, err := uow.Orders().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.E(domain.KindNotFound, "order not found")
		}

		from = order.Status
		if next == domain.StatusCancelled && order.Status == domain.StatusCancelled {
			noop = true
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(next) {
			return domain.E(domain.KindConflict, "cannot transition order from %s to %s", order.Status, next)
		}

		restored := order.StockRestored
		if next == domain.StatusCancelled && !restored {
			for _, line := range order.Lines {
				item, err := uow.Items().FindForUpdate(ctx, line.ItemID)
				if err != nil {
					return err
				}
				if item == nil {
					// item removed from the catalog since purchase
					continue
				}
				if err := uow.Items().AdjustStock(ctx, line.ItemID, line.Quantity); err != nil {
					return err
				}
				stockEvents = append(stockEvents, domain.ItemStockChangedEvent{
					ItemID: line.ItemID,
					Delta:  line.Quantity,
					Stock:  item.Stock + line.Quantity,
				})
			}
			restored = true
		}

		if err := uow.Orders().UpdateStatus(ctx, id, next, restored); err != nil {
			return err
		}
		order.Status = next
		order.StockRestored = restored
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if noop {
		return updated, nil
	}

	if next == domain.StatusCancelled {
		s.metrics.RecordOrderCancelled(ctx)
	}
	s.publish(domain.TopicOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID: updated.ID,
		From:    from,
		To:      next,
	})
	for _, evt := range stockEvents {
		s.publish(domain.TopicItemStockChanged, evt)
	}

	return updated, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *OrderService) publish(topic string, payload any) {
	if s.publisher == nil {
		return
	}
	go func() {
		if err := s.publisher.Publish(context.Background(), topic, payload); err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
		}
	}()
}
