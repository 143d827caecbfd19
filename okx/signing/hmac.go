package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// BuildHmacSignature 构建 OKX v5 请求签名
//
// sign = Base64(HMAC-SHA256(secret, timestamp + method + requestPath + body))
// requestPath 包含查询字符串；GET 请求 body 为空。
func BuildHmacSignature(secret, timestamp, method, requestPath, body string) (string, error) {
	if secret == "" {
		return "", errors.New("secret 为空，无法签名")
	}

	message := timestamp + method + requestPath + body

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
