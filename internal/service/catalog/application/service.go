package application

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"freshcart/internal/pkg/logger"
	"freshcart/internal/service/catalog/domain"
)

// CatalogService 承载商品目录的浏览与管理用例。
// 目录侧没有并发冲突：库存变更只有两个入口——订单核心的条件减扣，
// 和这里的补货（条件加回），都落在仓储的原子操作上。
type CatalogService struct {
	repo   domain.ItemRepository
	tracer trace.Tracer
}

func NewCatalogService(repo domain.ItemRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, tracer: tracer}
}

func (s *CatalogService) ListItems(ctx context.Context, category string) ([]*ItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListItems")
	defer span.End()

	var cat domain.Category
	if category != "" {
		parsed, err := domain.ParseCategory(category)
		if err != nil {
			span.SetStatus(codes.Error, "unknown category")
			return nil, err
		}
		cat = parsed
	}

	items, err := s.repo.FindAll(ctx, cat)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.result_count", len(items)))
	resp := make([]*ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, ToItemResponse(item))
	}
	return resp, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id string) (*ItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetItem")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", id))

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return ToItemResponse(item), nil
}

func (s *CatalogService) CreateItem(ctx context.Context, req *UpsertItemRequest) (*ItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateItem")
	defer span.End()

	if req.Price == nil {
		span.SetStatus(codes.Error, "invalid item")
		return nil, fmt.Errorf("%w: price is required", domain.ErrInvalidItem)
	}
	item, err := domain.NewItem(req.Name, domain.Category(req.Category), *req.Price, req.Stock)
	if err != nil {
		span.SetStatus(codes.Error, "invalid item")
		return nil, err
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	if err := s.repo.Save(ctx, item); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Ctx(ctx).Info().Str("item_id", item.ID).Str("name", item.Name).Msg("item created")
	return ToItemResponse(item), nil
}

// UpdateItem 修改商品基础属性。注意：库存不在这里改 —— 改库存走
// Restock，卖出走订单核心的减扣，避免 read-modify-write 覆盖并发变更。
func (s *CatalogService) UpdateItem(ctx context.Context, id string, req *UpsertItemRequest) (*ItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateItem")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", id))

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Category != "" {
		cat, err := domain.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		item.Category = cat
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrInvalidItem)
		}
		item.Price = *req.Price
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	if err := s.repo.Update(ctx, item); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return ToItemResponse(item), nil
}

func (s *CatalogService) Restock(ctx context.Context, id string, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "catalog.Restock")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", id), attribute.Int("restock.quantity", quantity))

	if quantity <= 0 {
		span.SetStatus(codes.Error, "invalid quantity")
		return fmt.Errorf("%w: restock quantity must be > 0", domain.ErrInvalidItem)
	}
	if err := s.repo.IncrementStock(ctx, id, quantity); err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("item_id", id).Int("quantity", quantity).Msg("item restocked")
	return nil
}

func (s *CatalogService) DeactivateItem(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.DeactivateItem")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", id))

	if err := s.repo.Deactivate(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("item_id", id).Msg("item deactivated")
	return nil
}
