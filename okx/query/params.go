// Package query 构建保持插入顺序的查询字符串
//
// url.Values.Encode 会按 key 排序，而 OKX 签名覆盖完整的 requestPath，
// 参数顺序必须稳定且与添加顺序一致，因此单独实现。
package query

import (
	"net/url"
	"strconv"
	"strings"
)

type pair struct {
	key   string
	value string
}

// Params 有序的查询参数集合
type Params struct {
	pairs []pair
}

// New 创建空参数集合
func New() *Params {
	return &Params{}
}

// Set 追加必填参数（空值也会写入）
func (p *Params) Set(key, value string) *Params {
	p.pairs = append(p.pairs, pair{key: key, value: value})
	return p
}

// Opt 追加可选参数，空字符串表示缺省
func (p *Params) Opt(key, value string) *Params {
	if value == "" {
		return p
	}
	return p.Set(key, value)
}

// OptInt 追加可选整数参数，0 表示缺省
func (p *Params) OptInt(key string, value int) *Params {
	if value == 0 {
		return p
	}
	return p.Set(key, strconv.Itoa(value))
}

// Len 参数数量
func (p *Params) Len() int {
	return len(p.pairs)
}

// Encode 按添加顺序编码，key 与 value 均做转义
func (p *Params) Encode() string {
	if len(p.pairs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.value))
	}
	return sb.String()
}

// Path 拼接到 path 后；没有参数时不添加 '?'
func (p *Params) Path(path string) string {
	encoded := p.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
