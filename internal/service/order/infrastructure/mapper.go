package infrastructure

import (
	"freshcart/internal/service/order/domain"
)

// ToDomainOrder 将数据库模型转换为领域模型
func ToDomainOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	lines := make([]domain.OrderLine, 0, len(model.Lines))
	for _, l := range model.Lines {
		lines = append(lines, domain.OrderLine{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}
	return &domain.Order{
		ID:          model.ID,
		UserID:      model.UserID,
		Lines:       lines,
		Subtotal:    model.Subtotal,
		DeliveryFee: model.DeliveryFee,
		Total:       model.Total,
		Status:      model.Status,
		DeliveryAddress: domain.DeliveryAddress{
			Street:  model.AddrStreet,
			City:    model.AddrCity,
			State:   model.AddrState,
			ZipCode: model.AddrZipCode,
			Full:    model.AddrFull,
		},
		PaymentMethod: model.PaymentMethod,
		PaymentStatus: model.PaymentStatus,
		Notes:         model.Notes,
		TrackingID:    model.TrackingID,
		EstimatedAt:   model.EstimatedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// FromDomainOrder 将领域模型转换为数据库模型 (用于插入)
func FromDomainOrder(dmn *domain.Order) *OrderModel {
	if dmn == nil {
		return nil
	}
	lines := make([]OrderLineModel, 0, len(dmn.Lines))
	for _, l := range dmn.Lines {
		lines = append(lines, OrderLineModel{
			OrderID:  dmn.ID,
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}
	return &OrderModel{
		ID:            dmn.ID,
		UserID:        dmn.UserID,
		Subtotal:      dmn.Subtotal,
		DeliveryFee:   dmn.DeliveryFee,
		Total:         dmn.Total,
		Status:        dmn.Status,
		AddrStreet:    dmn.DeliveryAddress.Street,
		AddrCity:      dmn.DeliveryAddress.City,
		AddrState:     dmn.DeliveryAddress.State,
		AddrZipCode:   dmn.DeliveryAddress.ZipCode,
		AddrFull:      dmn.DeliveryAddress.Full,
		PaymentMethod: dmn.PaymentMethod,
		PaymentStatus: dmn.PaymentStatus,
		Notes:         dmn.Notes,
		TrackingID:    dmn.TrackingID,
		EstimatedAt:   dmn.EstimatedAt,
		CreatedAt:     dmn.CreatedAt,
		UpdatedAt:     dmn.UpdatedAt,
		Lines:         lines,
	}
}
