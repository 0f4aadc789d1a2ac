package domain

import "time"

// OrderPlaced 是订单创建成功后发布的集成事件。
// 下游（通知、报表）各取所需；本服务只发不收。
type OrderPlaced struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	TrackingID string    `json:"trackingId"`
	Total      float64   `json:"total"`
	LineCount  int       `json:"lineCount"`
	PlacedAt   time.Time `json:"placedAt"`
}

// OrderStatusChanged 是状态流转成功后发布的集成事件。
type OrderStatusChanged struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	ChangedAt time.Time `json:"changedAt"`
}
