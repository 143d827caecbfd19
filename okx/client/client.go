package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/betbot/okx/okx/types"
	"github.com/betbot/okx/pkg/config"
	"github.com/betbot/okx/pkg/ratelimit"
)

// Requester 发送单个 REST 请求并把 data 字段解析到 out
//
// 账户门面只依赖这个接口；签名、限流、传输都在实现内部完成。
type Requester interface {
	SendRequest(ctx context.Context, method, path, body string, out any) error
}

// Client OKX REST 客户端
type Client struct {
	host        string
	creds       *types.ApiKeyCreds
	simulated   bool
	timeout     time.Duration
	proxy       string
	httpClient  *http.Client
	rateLimiter *ratelimit.RateLimitManager
	resty       *resty.Client
	now         func() time.Time
}

// Option 客户端选项
type Option func(*Client)

// WithCredentials 设置 API 凭证
func WithCredentials(creds types.ApiKeyCreds) Option {
	return func(c *Client) {
		c.creds = &creds
	}
}

// WithSimulated 模拟盘（发送 x-simulated-trading: 1）
func WithSimulated(simulated bool) Option {
	return func(c *Client) {
		c.simulated = simulated
	}
}

// WithTimeout 单次请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithProxy 代理地址，例如 http://127.0.0.1:7890
func WithProxy(proxy string) Option {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// WithHTTPClient 使用自定义 http.Client（测试或自定义 Transport）
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimiter 替换限流器；传 nil 关闭限流
func WithRateLimiter(m *ratelimit.RateLimitManager) Option {
	return func(c *Client) {
		c.rateLimiter = m
	}
}

// NewClient 创建新的 OKX 客户端
func NewClient(host string, opts ...Option) *Client {
	if host == "" {
		host = DefaultHost
	}

	c := &Client{
		host:        strings.TrimSuffix(host, "/"),
		timeout:     30 * time.Second,
		rateLimiter: NewAccountRateLimiter(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	var rc *resty.Client
	if c.httpClient != nil {
		rc = resty.NewWithClient(c.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(c.host).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "betbot-okx")
	if c.proxy != "" {
		rc.SetProxy(c.proxy)
	}
	c.resty = rc

	return c
}

// NewFromConfig 根据配置创建客户端
func NewFromConfig(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置为空")
	}
	opts := []Option{
		WithCredentials(cfg.Credentials),
		WithSimulated(cfg.Simulated),
		WithTimeout(cfg.Timeout),
		WithProxy(cfg.Proxy),
	}
	if !cfg.RateLimit {
		opts = append(opts, WithRateLimiter(nil))
	}
	return NewClient(cfg.Host, opts...), nil
}

// NewFromEnv 从环境变量（以及 .env / 配置文件 / secret store）创建客户端
func NewFromEnv() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolveCredentials(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewFromConfig(cfg)
}

// Host 获取主机地址
func (c *Client) Host() string {
	return c.host
}

// Simulated 是否为模拟盘
func (c *Client) Simulated() bool {
	return c.simulated
}

// HasCredentials 是否配置了完整凭证
func (c *Client) HasCredentials() bool {
	return c.creds.Complete()
}

// NewAccountRateLimiter 按 OKX 账户接口限频初始化的限流器
func NewAccountRateLimiter() *ratelimit.RateLimitManager {
	m := ratelimit.NewRateLimitManager(ratelimit.NewSlidingWindow(20, 2*time.Second))
	m.SetLimiter(EndpointBalance, ratelimit.NewSlidingWindow(10, 2*time.Second))
	m.SetLimiter(EndpointPositions, ratelimit.NewSlidingWindow(10, 2*time.Second))
	m.SetLimiter(EndpointConfig, ratelimit.NewSlidingWindow(5, 2*time.Second))
	m.SetLimiter(EndpointSetLeverage, ratelimit.NewSlidingWindow(20, 2*time.Second))
	m.SetLimiter(EndpointMaxSize, ratelimit.NewSlidingWindow(20, 2*time.Second))
	m.SetLimiter(EndpointAccountRisk, ratelimit.NewSlidingWindow(10, 2*time.Second))
	m.SetLimiter(EndpointBills, ratelimit.NewTokenBucket(5, 5, time.Second))
	return m
}
