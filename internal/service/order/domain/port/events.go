package port

import (
	"context"

	"freshcart/internal/service/order/domain"
)

// OrderEventProducer 是集成事件的出站端口。
// 事件发布是 best-effort：发布失败只记日志，绝不让已提交的订单请求失败。
type OrderEventProducer interface {
	PublishOrderPlaced(ctx context.Context, event *domain.OrderPlaced) error
	PublishStatusChanged(ctx context.Context, event *domain.OrderStatusChanged) error
}
