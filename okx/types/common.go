package types

import (
	"encoding/json"
	"fmt"
)

// InstType 产品类型
type InstType string

const (
	InstTypeSpot    InstType = "SPOT"
	InstTypeMargin  InstType = "MARGIN"
	InstTypeSwap    InstType = "SWAP"
	InstTypeFutures InstType = "FUTURES"
	InstTypeOption  InstType = "OPTION"
)

// MarginMode 保证金模式（封闭枚举，未知值反序列化失败）
type MarginMode string

const (
	MarginModeCross    MarginMode = "cross"
	MarginModeIsolated MarginMode = "isolated"
	MarginModeCash     MarginMode = "cash"
)

// Valid 是否为已知的保证金模式
func (m MarginMode) Valid() bool {
	switch m {
	case MarginModeCross, MarginModeIsolated, MarginModeCash:
		return true
	}
	return false
}

// UnmarshalJSON 拒绝交易所未定义的保证金模式
func (m *MarginMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode := MarginMode(s)
	if !mode.Valid() {
		return fmt.Errorf("未知的保证金模式: %q", s)
	}
	*m = mode
	return nil
}

// TradeMode 交易模式（max-size 的 tdMode）
type TradeMode string

const (
	TradeModeCross    TradeMode = "cross"
	TradeModeIsolated TradeMode = "isolated"
	TradeModeCash     TradeMode = "cash"
)

// PosSide 持仓方向
type PosSide string

const (
	PosSideLong  PosSide = "long"
	PosSideShort PosSide = "short"
	PosSideNet   PosSide = "net"
)

// ApiKeyCreds API 密钥凭证
type ApiKeyCreds struct {
	Key        string
	Secret     string
	Passphrase string
}

// Complete 三项凭证是否齐全
func (c *ApiKeyCreds) Complete() bool {
	return c != nil && c.Key != "" && c.Secret != "" && c.Passphrase != ""
}
