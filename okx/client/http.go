package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/okx/okx/signing"
	"github.com/betbot/okx/pkg/logger"
)

// envelope OKX v5 统一响应外壳
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// itemStatus 批量接口在 data 中逐项返回的状态
type itemStatus struct {
	SCode string `json:"sCode"`
	SMsg  string `json:"sMsg"`
}

// Send 发送请求并把 data 解析为 T
func Send[T any](ctx context.Context, r Requester, method, path, body string) (T, error) {
	var out T
	if err := r.SendRequest(ctx, method, path, body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// SendRequest 执行一次 REST 调用
//
// path 为包含查询字符串的完整 requestPath，签名覆盖整个 path 与 body。
// 该方法不做重试；限流器只会等待，不会重发。
func (c *Client) SendRequest(ctx context.Context, method, path, body string, out any) error {
	method = strings.ToUpper(method)
	if ctx == nil {
		ctx = context.Background()
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx, limiterKey(path)); err != nil {
			return &Error{Kind: KindTransport, Method: method, Path: path, Err: errors.Wrap(err, "等待限流")}
		}
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	startTime := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(startTime)
	if err != nil {
		logger.Debugf("[okx] %s %s 请求失败 (耗时: %v): %v", method, path, duration, err)
		return &Error{Kind: KindTransport, Method: method, Path: path, Err: errors.WithStack(err)}
	}
	logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode(),
		"duration": duration,
	}).Debug("[okx] 请求完成")

	return decodeResponse(method, path, resp.StatusCode(), resp.Body(), out)
}

// newRequest 构建请求并注入认证头
func (c *Client) newRequest(ctx context.Context, method, path, body string) (*resty.Request, error) {
	r := c.resty.R().SetContext(ctx)
	r.SetHeader("Content-Type", "application/json")
	if c.simulated {
		r.SetHeader(signing.HeaderSimulated, "1")
	}
	if body != "" {
		r.SetBody(body)
	}

	if c.creds.Complete() {
		now := c.now()
		headers, err := signing.CreateHeaders(c.creds, signing.HeaderArgs{
			Method:      method,
			RequestPath: path,
			Body:        body,
		}, &now)
		if err != nil {
			return nil, &Error{Kind: KindEncode, Method: method, Path: path, Err: errors.Wrap(err, "签名失败")}
		}
		r.SetHeaders(headers)
	}
	return r, nil
}

// decodeResponse 检查状态码与业务码，并把 data 解析到 out
func decodeResponse(method, path string, status int, body []byte, out any) error {
	var env envelope
	envErr := json.Unmarshal(body, &env)

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		e := &Error{Kind: KindHTTP, Method: method, Path: path, Status: status}
		if envErr == nil && (env.Code != "" || env.Msg != "") {
			e.Code = env.Code
			e.Msg = env.Msg
		} else {
			e.Err = errors.Errorf("http non-2xx: %s", truncate(body, 256))
		}
		logger.Warnf("[okx] %v", e)
		return e
	}

	if envErr != nil {
		return &Error{
			Kind: KindDecode, Method: method, Path: path, Status: status,
			Err: errors.Wrapf(envErr, "解析响应失败, 响应体: %s", truncate(body, 256)),
		}
	}

	if env.Code != "" && env.Code != "0" {
		e := &Error{Kind: KindAPI, Method: method, Path: path, Status: status, Code: env.Code, Msg: env.Msg}
		// msg 为空时用 data[0] 的 sCode/sMsg 补充，普通数据行不覆盖顶层 code
		if e.Msg == "" {
			var items []itemStatus
			if json.Unmarshal(env.Data, &items) == nil && len(items) > 0 {
				if items[0].SCode != "" {
					e.Code = items[0].SCode
				}
				if items[0].SMsg != "" {
					e.Msg = items[0].SMsg
				}
			}
		}
		logger.Warnf("[okx] %v", e)
		return e
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{
			Kind: KindDecode, Method: method, Path: path, Status: status,
			Err: errors.Wrapf(err, "解析 data 失败: %s", truncate(env.Data, 256)),
		}
	}
	return nil
}

// limiterKey 去掉查询字符串，按接口路径限流
func limiterKey(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
