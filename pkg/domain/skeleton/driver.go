// 指示: miu200521358
package skeleton

import (
	"fmt"
	"math"
	"strconv"

	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
	"gopkg.in/Knetic/govaluate.v3"
)

const (
	// DriverVariable はドライバー式で参照する入力変数名。
	DriverVariable = "scale"
	// ChannelScaleY は駆動スカラーとして読むY軸スケール。
	ChannelScaleY = "scale.y"
)

// Driver は他ボーンのチャンネル値から影響度を算出する式を表す。
type Driver struct {
	Expression    string `yaml:"expression"`
	SourceBone    string `yaml:"source_bone"`
	SourceChannel string `yaml:"source_channel"`
}

// driverFunctions はドライバー式で使える関数。
var driverFunctions = map[string]govaluate.ExpressionFunction{
	"min": func(args ...interface{}) (interface{}, error) {
		return foldFloats("min", args, math.Min)
	},
	"max": func(args ...interface{}) (interface{}, error) {
		return foldFloats("max", args, math.Max)
	},
}

func foldFloats(name string, args []interface{}, fn func(a, b float64) float64) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s の引数がありません", name)
	}
	result := 0.0
	for i, arg := range args {
		value, ok := arg.(float64)
		if !ok {
			return nil, fmt.Errorf("%s の引数が数値ではありません: %v", name, arg)
		}
		if i == 0 {
			result = value
			continue
		}
		result = fn(result, value)
	}
	return result, nil
}

// NewGateDriver は閾値以下で0、閾値+幅で1となる線形ゲートのドライバーを生成する。
func NewGateDriver(sourceBone string, threshold float64, span float64) *Driver {
	return &Driver{
		Expression: fmt.Sprintf(
			"min(max((%s - %s) / %s, 0), 1)",
			DriverVariable,
			formatDriverFloat(threshold),
			formatDriverFloat(span),
		),
		SourceBone:    sourceBone,
		SourceChannel: ChannelScaleY,
	}
}

// Evaluate は入力値で式を評価する。
func (d *Driver) Evaluate(value float64) (float64, error) {
	if d == nil {
		return 0, merr.NewError(model.ErrIDDriverExpression, nil, "ドライバーが未設定です")
	}
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(d.Expression, driverFunctions)
	if err != nil {
		return 0, merr.NewError(model.ErrIDDriverExpression, err, "ドライバー式の解析に失敗しました: %s", d.Expression)
	}
	result, err := expression.Evaluate(map[string]interface{}{DriverVariable: value})
	if err != nil {
		return 0, merr.NewError(model.ErrIDDriverExpression, err, "ドライバー式の評価に失敗しました: %s", d.Expression)
	}
	switch v := result.(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, merr.NewError(model.ErrIDDriverExpression, nil, "ドライバー式の結果が数値ではありません: %v", result)
}

func formatDriverFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
