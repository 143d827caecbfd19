package types

import "github.com/shopspring/decimal"

// Position 持仓信息（/account/positions）
type Position struct {
	InstType    InstType `json:"instType"`
	MgnMode     string   `json:"mgnMode"`
	PosID       string   `json:"posId"`
	PosSide     PosSide  `json:"posSide"`
	Pos         string   `json:"pos"`     // 持仓数量
	Ccy         string   `json:"ccy"`     // 保证金币种
	PosCcy      string   `json:"posCcy"`  // 仓位资产币种（仅币币杠杆）
	AvailPos    string   `json:"availPos"`
	AvgPx       string   `json:"avgPx"`
	Upl         string   `json:"upl"`
	UplRatio    string   `json:"uplRatio"`
	InstID      string   `json:"instId"`
	Lever       string   `json:"lever"`
	LiqPx       string   `json:"liqPx"`
	MarkPx      string   `json:"markPx"`
	Imr         string   `json:"imr"`
	Margin      string   `json:"margin"`
	MgnRatio    string   `json:"mgnRatio"`
	Mmr         string   `json:"mmr"`
	Liab        string   `json:"liab"`
	LiabCcy     string   `json:"liabCcy"`
	Interest    string   `json:"interest"`
	TradeID     string   `json:"tradeId"`
	NotionalUsd string   `json:"notionalUsd"`
	Adl         string   `json:"adl"`
	Last        string   `json:"last"`
	CTime       string   `json:"cTime"`
	UTime       string   `json:"uTime"`
}

// PosDecimal 持仓数量
func (p Position) PosDecimal() (decimal.Decimal, error) {
	return ParseDecimal(p.Pos)
}

// UplDecimal 未实现收益
func (p Position) UplDecimal() (decimal.Decimal, error) {
	return ParseDecimal(p.Upl)
}
