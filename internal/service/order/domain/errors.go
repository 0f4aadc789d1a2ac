package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCart 购物车为空，无法下单。
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderNotFound 订单不存在，或不属于请求的用户。
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnknownStatus 状态取值不在枚举内。
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrStockConflict 在提交时输掉了库存的并发竞争。
	// 与普通的 ItemUnavailable 区分开，调用方可以选择重新校验后自动重试。
	ErrStockConflict = errors.New("lost stock race, please retry")

	// ErrStatusConflict 状态条件更新影响行数为 0：
	// 要么有并发流转抢先提交，要么目标流转不合法。
	ErrStatusConflict = errors.New("order status changed concurrently")

	// ErrDuplicateRequest 幂等键已被占用且对应请求仍在处理中。
	ErrDuplicateRequest = errors.New("duplicate request is in flight")

	// ErrTrackingIDTaken 追踪号撞上唯一索引（概率极低），调用方换号重试。
	ErrTrackingIDTaken = errors.New("tracking id already taken")

	// ErrInvalidRequest 客户端可修复的入参错误，接口层据此映射 4xx。
	ErrInvalidRequest = errors.New("invalid request")
)

// UnsatisfiableReason 标注一条购物车行无法满足的原因。
type UnsatisfiableReason string

const (
	ReasonNotFound          UnsatisfiableReason = "not_found"
	ReasonInactive          UnsatisfiableReason = "inactive"
	ReasonInsufficientStock UnsatisfiableReason = "insufficient_stock"
)

// UnsatisfiableLine 描述一条无法满足的购物车行，带回请求量与当前可用量，
// 让客户端有足够信息调整后重试。
type UnsatisfiableLine struct {
	ItemID    string              `json:"itemId"`
	Reason    UnsatisfiableReason `json:"reason"`
	Requested int                 `json:"requested"`
	Available int                 `json:"available"`
}

// UnavailableError 聚合整个请求中所有无法满足的行。
// 校验不会在第一条失败的行上短路，整单拒绝时一次性全部返回给客户端。
type UnavailableError struct {
	Lines []UnsatisfiableLine
}

func (e *UnavailableError) Error() string {
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		ids = append(ids, fmt.Sprintf("%s(%s)", l.ItemID, l.Reason))
	}
	return "some items are not available: " + strings.Join(ids, ", ")
}

// InvalidTransitionError 记录一次被拒绝的状态流转。
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}
