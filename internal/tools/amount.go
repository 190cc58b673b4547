package tools

import (
	"math/big"
)

// UiToNative 将 UI 金额转换为 mint 原生整数单位（按 decimals 放大后向下取整）。
// 指令构造前金额必须已是原生单位。
func UiToNative(amount float64, decimals uint8) uint64 {
	scale := new(big.Float).SetInt(pow10(decimals))
	v := new(big.Float).Mul(big.NewFloat(amount), scale)
	i, _ := v.Int(nil) // 非负金额下向零取整等价于向下取整
	if i.Sign() < 0 {
		return 0
	}
	return i.Uint64()
}

// NativeToUi 将原生整数单位转换为 UI 金额
func NativeToUi(amount uint64, decimals uint8) float64 {
	v := new(big.Float).SetUint64(amount)
	scale := new(big.Float).SetInt(pow10(decimals))
	f, _ := new(big.Float).Quo(v, scale).Float64()
	return f
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
