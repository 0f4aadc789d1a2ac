package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"freshcart/internal/pkg/logger"
	"freshcart/internal/pkg/metrics"
	"freshcart/internal/service/order/domain"
	"freshcart/internal/service/order/domain/port"
)

// ErrBadLine 行内容不合法（缺少商品引用或数量 < 1），属于客户端可修复的校验错误。
var ErrBadLine = errors.New("each line must have an item reference and quantity >= 1")

// OrderApplicationService 编排下单核心流程：
// 规范化 → 全量校验 → 以目录现价冻结快照 → 事务提交（建单 + 条件减库存）。
// 它自己不持有任何可变共享状态，天然可被并发调用。
type OrderApplicationService struct {
	orderRepo domain.OrderRepository
	validator *StockValidator
	feePolicy port.FeePolicy
	producer  port.OrderEventProducer // 可为 nil：事件发布是可选的
	idem      port.IdempotencyStore   // 可为 nil：不启用幂等重放
	metrics   *metrics.OrderMetrics   // 可为 nil
	tracer    trace.Tracer

	idemTTL     time.Duration
	deliveryETA time.Duration
}

type Options struct {
	Producer       port.OrderEventProducer
	Idempotency    port.IdempotencyStore
	Metrics        *metrics.OrderMetrics
	IdempotencyTTL time.Duration
	DeliveryETA    time.Duration
}

func NewOrderApplicationService(orderRepo domain.OrderRepository, catalogSvc port.CatalogService, feePolicy port.FeePolicy, tracer trace.Tracer, opts Options) *OrderApplicationService {
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}
	if opts.DeliveryETA <= 0 {
		opts.DeliveryETA = 45 * time.Minute
	}
	return &OrderApplicationService{
		orderRepo:   orderRepo,
		validator:   NewStockValidator(catalogSvc),
		feePolicy:   feePolicy,
		producer:    opts.Producer,
		idem:        opts.Idempotency,
		metrics:     opts.Metrics,
		tracer:      tracer,
		idemTTL:     opts.IdempotencyTTL,
		deliveryETA: opts.DeliveryETA,
	}
}

// ValidateStock 是暴露给接口层的只读校验入口。
// 幂等：目录没有变化时，连续两次调用返回完全一致的结果。
func (s *OrderApplicationService) ValidateStock(ctx context.Context, req *ValidateStockRequest) (*ValidateStockResponse, error) {
	ctx, span := s.tracer.Start(ctx, "order.ValidateStock")
	defer span.End()

	lines := NormalizeLines(req.Items)
	if len(lines) == 0 {
		span.SetStatus(codes.Error, "empty cart")
		return nil, domain.ErrEmptyCart
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrBadLine
		}
	}

	result, err := s.validator.Validate(ctx, lines)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("cart.lines", len(lines)),
		attribute.Int("cart.unsatisfiable", len(result.Unsatisfiable)),
	)
	return &ValidateStockResponse{
		AllAvailable:       result.AllAvailable(),
		UnsatisfiableLines: append([]domain.UnsatisfiableLine{}, result.Unsatisfiable...),
	}, nil
}

// PlaceOrder 执行下单工作流（见仓储接口对原子性的约定）。
// 返回要么是完整订单，要么是带结构化原因的拒绝，绝无半成功。
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "order.PlaceOrder")
	defer span.End()

	started := time.Now()
	resp, err := s.placeOrder(ctx, span, req)
	if s.metrics != nil {
		s.metrics.PlaceLatencyMS.Observe(float64(time.Since(started).Milliseconds()))
		if err != nil {
			s.metrics.OrdersRejected.WithLabelValues(rejectionReason(err)).Inc()
		} else {
			s.metrics.OrdersPlaced.Inc()
		}
	}
	return resp, err
}

func (s *OrderApplicationService) placeOrder(ctx context.Context, span trace.Span, req *PlaceOrderRequest) (resp *OrderResponse, err error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalidRequest)
	}
	span.SetAttributes(attribute.String("user.id", req.UserID))

	// 1. 边界归一化：之后的所有步骤只认规范形态的行
	lines := NormalizeLines(req.Items)
	if len(lines) == 0 {
		span.SetStatus(codes.Error, "empty cart")
		return nil, domain.ErrEmptyCart
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrBadLine
		}
	}
	method, perr := domain.ParsePaymentMethod(req.PaymentMethod)
	if perr != nil {
		return nil, perr
	}
	if strings.TrimSpace(req.DeliveryAddress.Full) == "" {
		return nil, fmt.Errorf("%w: delivery address is required", domain.ErrInvalidRequest)
	}

	// 2. 幂等重放：同一个键的重复请求直接返回首次创建的订单
	if s.idem != nil && req.IdempotencyKey != "" {
		existingID, claimed, cerr := s.idem.Claim(ctx, req.IdempotencyKey, s.idemTTL)
		if cerr != nil {
			span.RecordError(cerr)
			return nil, cerr
		}
		if existingID != "" {
			span.AddEvent("idempotent replay")
			existing, ferr := s.orderRepo.FindByID(ctx, existingID)
			if ferr != nil {
				return nil, ferr
			}
			return ToOrderResponse(existing), nil
		}
		if !claimed {
			return nil, domain.ErrDuplicateRequest
		}
		defer func() {
			// 创建失败时释放键，让客户端可以原样重试
			if err != nil {
				_ = s.idem.Release(context.WithoutCancel(ctx), req.IdempotencyKey)
			}
		}()
	}

	// 3. 全量校验：收集所有无法满足的行，整单拒绝，不做部分成交
	result, err := s.validator.Validate(ctx, lines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock validation failed")
		return nil, err
	}
	if !result.AllAvailable() {
		span.SetAttributes(attribute.Int("cart.unsatisfiable", len(result.Unsatisfiable)))
		return nil, &domain.UnavailableError{Lines: result.Unsatisfiable}
	}

	// 4. 以目录现价冻结快照。客户端带来的价格只是展示缓存，从不采信
	orderLines := make([]domain.OrderLine, 0, len(lines))
	var subtotal float64
	for _, l := range lines {
		item := result.Items[l.ItemID]
		orderLines = append(orderLines, domain.OrderLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: l.Quantity,
		})
		subtotal += item.Price * float64(l.Quantity)
	}

	// 5. 配送费整单收一次
	fee, err := s.feePolicy.DeliveryFee(ctx, subtotal, len(orderLines))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order, err := domain.NewOrder(
		uuid.NewString(), req.UserID, orderLines,
		req.DeliveryAddress, method, fee, req.Notes,
		newTrackingID(), s.deliveryETA,
	)
	if err != nil {
		return nil, err
	}

	// 6. 原子提交：建单 + 全部行的条件减库存，要么全有要么全无
	if err = s.createWithRetry(ctx, order); err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrStockConflict) {
			// 输掉竞争后重新校验：库存确实不够就给出新鲜的可用量，
			// 否则保留冲突语义让调用方自行重试
			if recheck, verr := s.validator.Validate(ctx, lines); verr == nil && !recheck.AllAvailable() {
				return nil, &domain.UnavailableError{Lines: recheck.Unsatisfiable}
			}
			return nil, domain.ErrStockConflict
		}
		span.SetStatus(codes.Error, "order persistence failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.tracking_id", order.TrackingID),
		attribute.Float64("order.total", order.Total),
	)
	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Float64("total", order.Total).
		Int("lines", len(order.Lines)).
		Msg("order placed")

	if s.idem != nil && req.IdempotencyKey != "" {
		if err := s.idem.Complete(ctx, req.IdempotencyKey, order.ID, s.idemTTL); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to bind idempotency key")
		}
	}

	s.publishPlaced(ctx, order)
	return ToOrderResponse(order), nil
}

// createWithRetry 处理追踪号的唯一键碰撞：换一个号重试，最多三次。
func (s *OrderApplicationService) createWithRetry(ctx context.Context, order *domain.Order) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = s.orderRepo.Create(ctx, order)
		if !errors.Is(err, domain.ErrTrackingIDTaken) {
			return err
		}
		order.TrackingID = newTrackingID()
	}
	return err
}

// GetOrder 只返回属于请求用户的订单；归属不符一律按不存在处理。
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderID, userID string) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "order.GetOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) {
		return nil, domain.ErrOrderNotFound
	}
	return ToOrderResponse(order), nil
}

// TrackOrder 按追踪号查询，归属检查与 GetOrder 一致。
func (s *OrderApplicationService) TrackOrder(ctx context.Context, trackingID, userID string) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "order.TrackOrder")
	defer span.End()

	order, err := s.orderRepo.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) {
		return nil, domain.ErrOrderNotFound
	}
	return ToOrderResponse(order), nil
}

// ListOrders 返回用户的订单历史，新的在前。
func (s *OrderApplicationService) ListOrders(ctx context.Context, userID string) ([]*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "order.ListOrders")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, ToOrderResponse(o))
	}
	return resp, nil
}

// SetStatus 执行一次状态流转（运营/履约侧触发）。
// 条件更新保证两个并发流转不会互相覆盖；输掉的一方拿到 ErrStatusConflict。
func (s *OrderApplicationService) SetStatus(ctx context.Context, orderID, newStatus string) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "order.SetStatus")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID), attribute.String("order.next_status", newStatus))

	next, err := domain.ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.TransitionTo(next); err != nil {
		span.SetStatus(codes.Error, "invalid transition")
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, from, next); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("from", string(from)).
		Str("to", string(next)).
		Msg("order status changed")

	if s.producer != nil {
		event := &domain.OrderStatusChanged{
			OrderID:   order.ID,
			UserID:    order.UserID,
			From:      from,
			To:        next,
			ChangedAt: order.UpdatedAt,
		}
		if err := s.producer.PublishStatusChanged(ctx, event); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish status event")
		}
	}
	return ToOrderResponse(order), nil
}

func (s *OrderApplicationService) publishPlaced(ctx context.Context, order *domain.Order) {
	if s.producer == nil {
		return
	}
	event := &domain.OrderPlaced{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TrackingID: order.TrackingID,
		Total:      order.Total,
		LineCount:  len(order.Lines),
		PlacedAt:   order.CreatedAt,
	}
	// 发布失败只记日志：订单已提交，不能因为下游广播失败而报错
	if err := s.producer.PublishOrderPlaced(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish placed event")
	}
}

// newTrackingID 生成客户侧可读的追踪号，与存储主键分离。
func newTrackingID() string {
	return "TRK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func rejectionReason(err error) string {
	var unavailable *domain.UnavailableError
	var invalid *domain.InvalidTransitionError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &unavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrStockConflict):
		return "conflict"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "duplicate"
	case errors.Is(err, ErrBadLine), errors.As(err, &invalid):
		return "validation"
	default:
		return "persistence"
	}
}
