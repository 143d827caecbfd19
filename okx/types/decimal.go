package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal 解析交易所返回的十进制字符串
// OKX 对不适用的数值字段返回空字符串，这里按零处理
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// ParseOptionalDecimal 解析可选字段；nil 返回 ok=false
func ParseOptionalDecimal(s *string) (d decimal.Decimal, ok bool, err error) {
	if s == nil {
		return decimal.Zero, false, nil
	}
	d, err = ParseDecimal(*s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}
