package types

import "github.com/shopspring/decimal"

// AccountBalanceInfo 账户余额（/account/balance 返回数组中的单个元素）
// 所有金额均以字符串传输，保留交易所精度
type AccountBalanceInfo struct {
	AdjEq                 string    `json:"adjEq"`                 // 美金层面有效保证金
	BorrowFroz            string    `json:"borrowFroz"`            // 美金层面潜在借币占用保证金
	Details               []Balance `json:"details"`               // 各币种资产详细信息
	Imr                   string    `json:"imr"`                   // 美金层面占用保证金
	IsoEq                 string    `json:"isoEq"`                 // 美金层面逐仓仓位权益
	MgnRatio              string    `json:"mgnRatio"`              // 美金层面保证金率
	Mmr                   string    `json:"mmr"`                   // 美金层面维持保证金
	NotionalUsd           string    `json:"notionalUsd"`           // 仓位美金价值
	NotionalUsdForBorrow  string    `json:"notionalUsdForBorrow"`  // 借币金额（美元价值）
	NotionalUsdForFutures string    `json:"notionalUsdForFutures"` // 交割合约持仓美元价值
	NotionalUsdForOption  string    `json:"notionalUsdForOption"`  // 期权持仓美元价值
	NotionalUsdForSwap    string    `json:"notionalUsdForSwap"`    // 永续合约持仓美元价值
	OrdFroz               string    `json:"ordFroz"`
	TotalEq               string    `json:"totalEq"`
	UTime                 string    `json:"uTime"`
	Upl                   string    `json:"upl"`
}

// Balance 单币种余额
//
// 可选字段为 nil 表示交易所未返回（不适用），不是零。
type Balance struct {
	Ccy              string  `json:"ccy"`
	Balance          string  `json:"cashBal"`
	AvailableBalance string  `json:"availBal"`
	FrozenBalance    string  `json:"frozenBal"`
	Liability        *string `json:"liab,omitempty"`
	AvailableEquity  *string `json:"availEq,omitempty"`
	UnrealizedPL     *string `json:"upl,omitempty"`
}

// CashDecimal 币种总额
func (b Balance) CashDecimal() (decimal.Decimal, error) {
	return ParseDecimal(b.Balance)
}

// AvailableDecimal 可用余额
func (b Balance) AvailableDecimal() (decimal.Decimal, error) {
	return ParseDecimal(b.AvailableBalance)
}

// FrozenDecimal 冻结余额
func (b Balance) FrozenDecimal() (decimal.Decimal, error) {
	return ParseDecimal(b.FrozenBalance)
}

// IsZero 总额、可用、冻结都为零（解析失败视为非零）
func (b Balance) IsZero() bool {
	for _, s := range []string{b.Balance, b.AvailableBalance, b.FrozenBalance} {
		d, err := ParseDecimal(s)
		if err != nil || !d.IsZero() {
			return false
		}
	}
	return true
}

// AccountConfig 账户配置
type AccountConfig struct {
	AccountID    string     `json:"acctId"`
	PositionMode string     `json:"posMode"`
	AutoLoan     bool       `json:"autoLoan"`
	Level        string     `json:"level"`
	MarginMode   MarginMode `json:"mgnMode"`
}

// AccountRisk 账户风险数据
type AccountRisk struct {
	Risk        string `json:"risk"`
	RiskLevel   string `json:"riskLvl"`
	TotalEquity string `json:"totalEq"`
}
