package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"freshcart/internal/pkg/mq"
	"freshcart/internal/service/order/domain"
)

// KafkaEventProducer 把订单集成事件发往 Kafka。
// 消息 key 用订单号，同一订单的事件落在同一分区、保持有序。
type KafkaEventProducer struct {
	writer *kafka.Writer
}

func NewKafkaEventProducer(writer *kafka.Writer) *KafkaEventProducer {
	return &KafkaEventProducer{writer: writer}
}

func (p *KafkaEventProducer) PublishOrderPlaced(ctx context.Context, event *domain.OrderPlaced) error {
	return p.publish(ctx, event.OrderID, "order.placed", event)
}

func (p *KafkaEventProducer) PublishStatusChanged(ctx context.Context, event *domain.OrderStatusChanged) error {
	return p.publish(ctx, event.OrderID, "order.status_changed", event)
}

func (p *KafkaEventProducer) publish(ctx context.Context, orderID, eventType string, payload interface{}) error {
	envelope := struct {
		Type string      `json:"type"`
		Data interface{} `json:"data"`
	}{Type: eventType, Data: payload}

	value, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrapf(err, "marshal %s event", eventType)
	}
	return mq.ProduceMessage(ctx, p.writer, []byte(orderID), value)
}

// Close 在服务关停时冲刷并关闭底层 writer。
func (p *KafkaEventProducer) Close() error {
	return p.writer.Close()
}
