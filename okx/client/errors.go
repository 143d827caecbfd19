package client

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind int

const (
	// KindTransport 网络层失败（连接、超时、取消）
	KindTransport Kind = iota + 1
	// KindHTTP 非 2xx 响应
	KindHTTP
	// KindDecode 响应无法解析为预期的 JSON 结构
	KindDecode
	// KindEncode 请求体序列化失败
	KindEncode
	// KindAPI HTTP 200 但业务 code 非 "0"
	KindAPI
	// KindEmptyResponse 期望单个元素但 data 为空数组
	KindEmptyResponse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindAPI:
		return "api"
	case KindEmptyResponse:
		return "empty_response"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error 所有请求失败统一使用的错误类型
type Error struct {
	Kind   Kind
	Method string
	Path   string
	Status int    // HTTP 状态码（KindHTTP / KindAPI）
	Code   string // 交易所业务错误码
	Msg    string // 交易所错误信息
	Err    error  // 底层错误
}

// ErrEmptyResponse 单元素响应为空
var ErrEmptyResponse = &Error{Kind: KindEmptyResponse}

func (e *Error) Error() string {
	prefix := "okx " + e.Kind.String() + " error"
	if e.Method != "" || e.Path != "" {
		prefix += fmt.Sprintf(" (%s %s)", e.Method, e.Path)
	}
	switch {
	case e.Code != "" || e.Msg != "":
		if e.Status != 0 {
			return fmt.Sprintf("%s: status=%d code=%s msg=%s", prefix, e.Status, e.Code, e.Msg)
		}
		return fmt.Sprintf("%s: code=%s msg=%s", prefix, e.Code, e.Msg)
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status=%d: %v", prefix, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status=%d", prefix, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return prefix
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按 Kind 匹配；target 带 Code 时同时比较业务错误码
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// IsKind err 链上是否存在指定分类的 *Error
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
