package services

import (
	"context"

	"shop-service/internal/domain"
	rabbit "shop-service/internal/infra/rabbitmq"
	"shop-service/internal/repository"
)

type CartService struct {
	carts     repository.CartRepository
	items     repository.ItemRepository
	publisher rabbit.PublisherInterface
}

func NewCartService(carts repository.CartRepository, items repository.ItemRepository, pub rabbit.PublisherInterface) *CartService {
	return &CartService{
		carts:     carts,
		items:     items,
		publisher: pub,
	}
}

// Get returns the user's cart, reading an absent cart as empty. The total is
// recomputed from live catalog prices on every read.
func (s *CartService) Get(ctx context.Context, userID uint64) (*domain.Cart, error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &domain.Cart{UserID: userID, Lines: []domain.CartLine{}}, nil
	}
	if err := s.recomputeTotal(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem creates the cart lazily and sums quantities when the item is
// already in the cart.
func (s *CartService) AddItem(ctx context.Context, userID, itemID uint64, quantity int64) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.E(domain.KindValidation, "invalid item or quantity")
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.IsActive {
		return nil, domain.E(domain.KindNotFound, "item not found")
	}

	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &domain.Cart{UserID: userID}
		if err := s.carts.Create(ctx, cart); err != nil {
			return nil, err
		}
	}

	if line := cart.Line(itemID); line != nil {
		line.Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{CartID: cart.ID, ItemID: itemID, Quantity: quantity})
	}

	return s.saveAndNotify(ctx, cart)
}

// UpdateLine sets a line's quantity; quantity zero removes the line.
func (s *CartService) UpdateLine(ctx context.Context, userID, itemID uint64, quantity int64) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, domain.E(domain.KindValidation, "invalid quantity")
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.E(domain.KindNotFound, "item not found")
	}

	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.E(domain.KindNotFound, "cart not found")
	}

	line := cart.Line(itemID)
	if line == nil {
		return nil, domain.E(domain.KindNotFound, "item not in cart")
	}

	if quantity == 0 {
		cart.Lines = removeLine(cart.Lines, itemID)
	} else {
		line.Quantity = quantity
	}

	return s.saveAndNotify(ctx, cart)
}

func (s *CartService) RemoveLine(ctx context.Context, userID, itemID uint64) (*domain.Cart, error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.E(domain.KindNotFound, "cart not found")
	}
	if cart.Line(itemID) == nil {
		return nil, domain.E(domain.KindNotFound, "item not in cart")
	}

	cart.Lines = removeLine(cart.Lines, itemID)
	return s.saveAndNotify(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID uint64) (*domain.Cart, error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.E(domain.KindNotFound, "cart not found")
	}

	cart.Lines = []domain.CartLine{}
	return s.saveAndNotify(ctx, cart)
}

func (s *CartService) saveAndNotify(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := s.recomputeTotal(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.publish(domain.TopicCartUpdated, domain.CartUpdatedEvent{
		UserID:     cart.UserID,
		ItemsCount: len(cart.Lines),
		TotalPrice: cart.TotalPrice,
	})
	return cart, nil
}

// recomputeTotal derives the total from current catalog prices. Lines whose
// item no longer exists contribute nothing.
func (s *CartService) recomputeTotal(ctx context.Context, cart *domain.Cart) error {
	if len(cart.Lines) == 0 {
		cart.TotalPrice = 0
		return nil
	}

	ids := make([]uint64, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ItemID)
	}
	items, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	prices := make(map[uint64]float64, len(items))
	for _, item := range items {
		prices[item.ID] = item.Price
	}

	var total float64
	for _, line := range cart.Lines {
		total += prices[line.ItemID] * float64(line.Quantity)
	}
	cart.TotalPrice = total
	return nil
}

func (s *CartService) publish(topic string, payload any) {
	if s.publisher == nil {
		return
	}
	go func() {
		if err := s.publisher.Publish(context.Background(), topic, payload); err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
		}
	}()
}

func removeLine(lines []domain.CartLine, itemID uint64) []domain.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ItemID != itemID {
			out = append(out, l)
		}
	}
	return out
}
