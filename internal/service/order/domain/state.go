package domain

import "fmt"

// Status 定义了订单的生命周期状态
type Status string

const (
	StatusPending        Status = "pending"          // 已创建，等待商家确认
	StatusConfirmed      Status = "confirmed"        // 商家已确认
	StatusPreparing      Status = "preparing"        // 备餐/拣货中
	StatusOutForDelivery Status = "out_for_delivery" // 配送中
	StatusDelivered      Status = "delivered"        // 已送达（终态）
	StatusCancelled      Status = "cancelled"        // 已取消（终态）
)

// rank 给线性推进的状态编号；cancelled 不参与排序。
var rank = map[Status]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
}

// ParseStatus 校验状态取值。
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// IsTerminal 终态订单不再接受任何流转。
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo 实现状态机策略：
//   - 终态（delivered / cancelled）冻结；
//   - cancelled 可从任意非终态进入；
//   - 其余状态只允许沿 pending → confirmed → preparing →
//     out_for_delivery → delivered 向前走，允许跳步，禁止回退。
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok1 := rank[s]
	to, ok2 := rank[next]
	if !ok1 || !ok2 {
		return false
	}
	return to > from
}
