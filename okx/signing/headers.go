package signing

import (
	"fmt"
	"strings"
	"time"

	"github.com/betbot/okx/okx/types"
)

// 请求头名称
const (
	HeaderAccessKey        = "OK-ACCESS-KEY"
	HeaderAccessSign       = "OK-ACCESS-SIGN"
	HeaderAccessTimestamp  = "OK-ACCESS-TIMESTAMP"
	HeaderAccessPassphrase = "OK-ACCESS-PASSPHRASE"
	HeaderSimulated        = "x-simulated-trading"
)

// TimestampFormat OK-ACCESS-TIMESTAMP 使用的 ISO8601 毫秒格式（UTC）
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// HeaderArgs 签名参数
type HeaderArgs struct {
	Method      string
	RequestPath string
	Body        string
}

// FormatTimestamp 格式化签名时间戳
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// CreateHeaders 创建私有接口认证头
// now 为 nil 时使用当前时间
func CreateHeaders(creds *types.ApiKeyCreds, args HeaderArgs, now *time.Time) (map[string]string, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("API 凭证不完整")
	}

	ts := time.Now()
	if now != nil {
		ts = *now
	}
	timestamp := FormatTimestamp(ts)

	sig, err := BuildHmacSignature(
		creds.Secret,
		timestamp,
		strings.ToUpper(args.Method),
		args.RequestPath,
		args.Body,
	)
	if err != nil {
		return nil, fmt.Errorf("构建 HMAC 签名失败: %w", err)
	}

	return map[string]string{
		HeaderAccessKey:        creds.Key,
		HeaderAccessSign:       sig,
		HeaderAccessTimestamp:  timestamp,
		HeaderAccessPassphrase: creds.Passphrase,
	}, nil
}
