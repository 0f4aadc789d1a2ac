package port

import "context"

// FeePolicy 是配送费策略的出站端口。
// 整单收取一次，不按行累加；具体策略由基础设施层的规则引擎实现。
type FeePolicy interface {
	DeliveryFee(ctx context.Context, subtotal float64, itemCount int) (float64, error)
}
