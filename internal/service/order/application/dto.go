package application

import (
	"strings"
	"time"

	"freshcart/internal/service/order/domain"
)

// RawCartLine 接受客户端五花八门的行形态：
// 商品引用可能叫 itemId、id，或嵌在 item.id 里。
// 在这里一次性归一化成规范形态，业务逻辑深处不再做字段探测。
type RawCartLine struct {
	ItemID string `json:"itemId,omitempty"`
	ID     string `json:"id,omitempty"`
	Item   *struct {
		ID string `json:"id"`
	} `json:"item,omitempty"`
	Quantity int `json:"quantity"`

	// 客户端缓存的展示快照，服务端只认目录里的当前价，这两个字段仅透传展示
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price,omitempty"`
}

// CartLine 是规范化之后的购物车行。
type CartLine struct {
	ItemID   string
	Quantity int
}

func (l RawCartLine) itemRef() string {
	if l.ItemID != "" {
		return l.ItemID
	}
	if l.ID != "" {
		return l.ID
	}
	if l.Item != nil {
		return l.Item.ID
	}
	return ""
}

// NormalizeLines 把原始行归一化：解析商品引用、剔除空行、
// 合并重复商品的数量。数量非法（< 1）的行原样保留给校验器报错。
func NormalizeLines(raw []RawCartLine) []CartLine {
	index := make(map[string]int)
	lines := make([]CartLine, 0, len(raw))
	for _, r := range raw {
		ref := strings.TrimSpace(r.itemRef())
		if ref == "" {
			continue
		}
		if i, ok := index[ref]; ok {
			lines[i].Quantity += r.Quantity
			continue
		}
		index[ref] = len(lines)
		lines = append(lines, CartLine{ItemID: ref, Quantity: r.Quantity})
	}
	return lines
}

// PlaceOrderRequest 是创建订单用例的输入数据
type PlaceOrderRequest struct {
	UserID          string                 `json:"userId"`
	Items           []RawCartLine          `json:"items"`
	DeliveryAddress domain.DeliveryAddress `json:"deliveryAddress"`
	PaymentMethod   string                 `json:"paymentMethod,omitempty"`
	Notes           string                 `json:"orderNotes,omitempty"`

	// IdempotencyKey 从请求头带入，不参与 JSON 反序列化
	IdempotencyKey string `json:"-"`
}

// ValidateStockRequest 是库存校验用例的输入数据
type ValidateStockRequest struct {
	Items []RawCartLine `json:"items"`
}

// ValidateStockResponse 是库存校验的结果
type ValidateStockResponse struct {
	AllAvailable       bool                       `json:"allAvailable"`
	UnsatisfiableLines []domain.UnsatisfiableLine `json:"unsatisfiableLines"`
}

// OrderLineResponse 是订单行的展示形态
type OrderLineResponse struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// OrderResponse 是订单在接口层的展示形态
type OrderResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	Items           []OrderLineResponse    `json:"items"`
	Subtotal        float64                `json:"subtotal"`
	DeliveryFee     float64                `json:"deliveryFee"`
	Total           float64                `json:"total"`
	Status          string                 `json:"status"`
	DeliveryAddress domain.DeliveryAddress `json:"deliveryAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentStatus   string                 `json:"paymentStatus"`
	Notes           string                 `json:"orderNotes,omitempty"`
	TrackingID      string                 `json:"trackingId"`
	EstimatedAt     time.Time              `json:"estimatedDelivery"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// ToOrderResponse 从领域模型转换为应用层响应DTO
func ToOrderResponse(o *domain.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
		})
	}
	return &OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           lines,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		Status:          string(o.Status),
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		Notes:           o.Notes,
		TrackingID:      o.TrackingID,
		EstimatedAt:     o.EstimatedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
