package adapter

import (
	"context"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"
)

// CELFeePolicy 用一条 CEL 表达式计算整单配送费，表达式来自配置，
// 运营调价不需要改代码。可用变量:
//
//	subtotal   double  订单商品小计
//	item_count int     购物车行数
//
// 例: "subtotal >= 35.0 ? 0.0 : 4.99"
type CELFeePolicy struct {
	program cel.Program
}

// NewCELFeePolicy 编译表达式。表达式是启动期配置，编译失败直接拒绝启动，
// 不要等到第一单才发现写错了。
func NewCELFeePolicy(expr string) (*CELFeePolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("subtotal", cel.DoubleType),
		cel.Variable("item_count", cel.IntType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create cel env")
	}

	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "compile fee expression %q", expr)
	}
	if !ast.OutputType().IsExactType(cel.DoubleType) {
		return nil, errors.Errorf("fee expression %q must evaluate to double, got %s", expr, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "build cel program")
	}
	return &CELFeePolicy{program: program}, nil
}

func (p *CELFeePolicy) DeliveryFee(_ context.Context, subtotal float64, itemCount int) (float64, error) {
	out, _, err := p.program.Eval(map[string]interface{}{
		"subtotal":   subtotal,
		"item_count": itemCount,
	})
	if err != nil {
		return 0, errors.Wrap(err, "eval fee expression")
	}

	fee, ok := out.Value().(float64)
	if !ok {
		return 0, errors.Errorf("fee expression returned %T, want float64", out.Value())
	}
	if fee < 0 {
		return 0, errors.Errorf("fee expression returned negative fee %.2f", fee)
	}
	return fee, nil
}
