package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// PaymentMethod 支付方式枚举（只记录标志位，不对接网关）。
type PaymentMethod string

const (
	PaymentCredit         PaymentMethod = "credit_card"
	PaymentPaypal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// ParsePaymentMethod 校验支付方式；空串回落到默认的 credit_card。
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PaymentCredit, nil
	}
	switch PaymentMethod(s) {
	case PaymentCredit, PaymentPaypal, PaymentCashOnDelivery:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, s)
}

// PaymentStatus 支付状态标志。
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// DeliveryAddress 沿用前端表单的地址形态，full 为拼好的整串。
type DeliveryAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Full    string `json:"full"`
}

// OrderLine 是下单时刻的商品快照。
// Name/Price 在创建时从目录冻结拷贝，之后目录改价不影响历史订单。
type OrderLine struct {
	ItemID   string
	Name     string
	Price    float64
	Quantity int
}

// Subtotal 单行小计 = 冻结单价 × 数量。
func (l OrderLine) Subtotal() float64 {
	return round2(l.Price * float64(l.Quantity))
}

// Order 是订单聚合的根实体。创建后行、单价、总额全部不可变，
// 后续只有 Status / PaymentStatus / UpdatedAt 允许变化。
type Order struct {
	ID              string
	UserID          string
	Lines           []OrderLine
	Subtotal        float64
	DeliveryFee     float64
	Total           float64
	Status          Status
	DeliveryAddress DeliveryAddress
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Notes           string
	TrackingID      string
	EstimatedAt     time.Time // 静态送达预估，不做真实物流
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder 是订单的工厂函数。总额在这里算一次，之后永不重算。
func NewOrder(id, userID string, lines []OrderLine, address DeliveryAddress, method PaymentMethod, deliveryFee float64, notes, trackingID string, eta time.Duration) (*Order, error) {
	if id == "" || strings.TrimSpace(userID) == "" {
		return nil, errors.New("cannot create order with empty required fields")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	var subtotal float64
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, errors.New("line quantity must be >= 1")
		}
		if l.Price < 0 {
			return nil, errors.New("line price must be >= 0")
		}
		subtotal += l.Subtotal()
	}
	subtotal = round2(subtotal)

	// 现金到付的订单在送达前不算已支付，预付方式下单即记为 paid。
	payStatus := PaymentStatusPaid
	if method == PaymentCashOnDelivery {
		payStatus = PaymentStatusPending
	}

	now := time.Now()
	return &Order{
		ID:              id,
		UserID:          userID,
		Lines:           lines,
		Subtotal:        subtotal,
		DeliveryFee:     round2(deliveryFee),
		Total:           round2(subtotal + deliveryFee),
		Status:          StatusPending,
		DeliveryAddress: address,
		PaymentMethod:   method,
		PaymentStatus:   payStatus,
		Notes:           notes,
		TrackingID:      trackingID,
		EstimatedAt:     now.Add(eta),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TransitionTo 执行一次状态流转，非法流转返回 InvalidTransitionError。
// 任何流转都不会触碰行、单价和总额。
func (o *Order) TransitionTo(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return nil
}

// OwnedBy 订单归属检查；跨用户查询一律视为不存在。
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID == userID
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
