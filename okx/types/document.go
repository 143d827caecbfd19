package types

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Document 松散类型的响应数据
//
// set-leverage、max-size、bills 的返回结构较大且随产品类型变化，
// 这里保留原始 JSON，由调用方按需 Decode 到 LeverageResult / MaxSize / Bill。
type Document json.RawMessage

// MarshalJSON 原样输出
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON 保存原始字节的副本
func (d *Document) UnmarshalJSON(data []byte) error {
	if d == nil {
		return errors.New("types.Document: UnmarshalJSON on nil pointer")
	}
	*d = append((*d)[0:0], data...)
	return nil
}

// Decode 将文档解析到 v
func (d Document) Decode(v any) error {
	if d.IsNull() {
		return nil
	}
	return json.Unmarshal(d, v)
}

// IsNull 文档为空或为 JSON null
func (d Document) IsNull() bool {
	trimmed := bytes.TrimSpace(d)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// String 原始 JSON 文本
func (d Document) String() string {
	return string(d)
}

// LeverageResult set-leverage 返回项
type LeverageResult struct {
	Lever   string  `json:"lever"`
	MgnMode string  `json:"mgnMode"`
	InstID  string  `json:"instId"`
	PosSide PosSide `json:"posSide"`
}

// MaxSize max-size 返回项
type MaxSize struct {
	InstID  string `json:"instId"`
	Ccy     string `json:"ccy"`
	MaxBuy  string `json:"maxBuy"`
	MaxSell string `json:"maxSell"`
}

// Bill 账单流水（近七天）
type Bill struct {
	BillID    string   `json:"billId"`
	InstType  InstType `json:"instType"`
	InstID    string   `json:"instId"`
	Ccy       string   `json:"ccy"`
	MgnMode   string   `json:"mgnMode"`
	Type      string   `json:"type"`
	SubType   string   `json:"subType"`
	Bal       string   `json:"bal"`
	BalChg    string   `json:"balChg"`
	Sz        string   `json:"sz"`
	Px        string   `json:"px"`
	Pnl       string   `json:"pnl"`
	Fee       string   `json:"fee"`
	OrdID     string   `json:"ordId"`
	ExecType  string   `json:"execType"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Notes     string   `json:"notes"`
	Ts        string   `json:"ts"`
}
