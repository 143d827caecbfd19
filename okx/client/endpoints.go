package client

// DefaultHost OKX 生产环境地址
const DefaultHost = "https://www.okx.com"

// API 路径前缀
const (
	APIPrefix        = "/api/v5"
	APIAccountPrefix = APIPrefix + "/account"
)

// Account endpoints
const (
	EndpointBalance     = APIAccountPrefix + "/balance"
	EndpointPositions   = APIAccountPrefix + "/positions"
	EndpointConfig      = APIAccountPrefix + "/config"
	EndpointSetLeverage = APIAccountPrefix + "/set-leverage"
	EndpointMaxSize     = APIAccountPrefix + "/max-size"
	EndpointAccountRisk = APIAccountPrefix + "/account-risk"
	EndpointBills       = APIAccountPrefix + "/bills"
)
