package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/infra/storage"
	"shop-service/internal/repository"

	"github.com/go-redis/redis/v8"
)

const itemCacheTTL = time.Minute

type CatalogService struct {
	items       repository.ItemRepository
	images      storage.ImageStore
	redisClient *redis.Client
}

func NewCatalogService(items repository.ItemRepository, images storage.ImageStore) *CatalogService {
	return &CatalogService{
		items:  items,
		images: images,
	}
}

func (s *CatalogService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *CatalogService) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item.Name == "" || item.Price < 0 {
		return nil, domain.E(domain.KindValidation, "name and a non-negative price are required")
	}
	if item.Stock < 0 {
		return nil, domain.E(domain.KindValidation, "stock must not be negative")
	}
	item.IsActive = true

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id uint64) (*domain.Item, error) {
	cacheKey := fmt.Sprintf("item:%d", id)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var item domain.Item
			if err := json.Unmarshal([]byte(cached), &item); err == nil {
				return &item, nil
			}
		}
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.E(domain.KindNotFound, "item not found")
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(item); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, itemCacheTTL)
		}
	}

	return item, nil
}

func (s *CatalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.items.FindAll(ctx)
}

// ItemUpdate carries the mutable item fields; nil means leave unchanged.
type ItemUpdate struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *float64
	Stock       *int64
	IsActive    *bool
	Image       *string
}

func (s *CatalogService) UpdateItem(ctx context.Context, id uint64, upd ItemUpdate) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.E(domain.KindNotFound, "item not found")
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.SKU != nil {
		item.SKU = *upd.SKU
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return nil, domain.E(domain.KindValidation, "price must not be negative")
		}
		item.Price = *upd.Price
	}
	if upd.Stock != nil {
		if *upd.Stock < 0 {
			return nil, domain.E(domain.KindValidation, "stock must not be negative")
		}
		item.Stock = *upd.Stock
	}
	if upd.IsActive != nil {
		item.IsActive = *upd.IsActive
	}
	if upd.Image != nil {
		if item.Image != "" && s.images != nil {
			s.images.Delete(item.Image)
		}
		item.Image = *upd.Image
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return item, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uint64) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.E(domain.KindNotFound, "item not found")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	if item.Image != "" && s.images != nil {
		s.images.Delete(item.Image)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint64) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, fmt.Sprintf("item:%d", id))
}
