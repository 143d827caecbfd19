// Package account OKX 账户接口
//
// API 只负责拼装路径、查询字符串和请求体，然后交给 client.Requester；
// 签名、限流、传输与响应解析都在 client 包中完成。API 无内部状态，可并发使用。
package account

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/betbot/okx/okx/client"
	"github.com/betbot/okx/okx/query"
	"github.com/betbot/okx/okx/types"
)

// API 账户接口门面
type API struct {
	client client.Requester
}

// New 使用给定的客户端创建 API
func New(r client.Requester) *API {
	return &API{client: r}
}

// NewFromEnv 从环境变量创建 API
func NewFromEnv() (*API, error) {
	c, err := client.NewFromEnv()
	if err != nil {
		return nil, err
	}
	return New(c), nil
}

// Client 内部客户端
func (a *API) Client() client.Requester {
	return a.client
}

// PositionsQuery 持仓查询条件，空字段不发送
type PositionsQuery struct {
	InstType types.InstType
	InstID   string
	PosID    string
}

// SetLeverageRequest 设置杠杆请求
type SetLeverageRequest struct {
	InstID  string           `json:"instId"`
	Lever   string           `json:"lever"`
	MgnMode types.MarginMode `json:"mgnMode"`
	PosSide types.PosSide    `json:"posSide,omitempty"` // 仅开平仓模式下的逐仓需要
}

// MaxSizeQuery 最大可交易数量查询条件
type MaxSizeQuery struct {
	InstID   string          // 必填
	TdMode   types.TradeMode // 必填
	Ccy      string
	Px       string
	Leverage string
}

// BillsQuery 账单查询条件，空字段与 Limit=0 不发送
type BillsQuery struct {
	InstType  types.InstType
	Ccy       string
	MgnMode   types.MarginMode
	Type      string
	StartTime string // 毫秒时间戳，发送为 begin
	EndTime   string // 毫秒时间戳，发送为 end
	Limit     int
}

// GetBalanceInfo 查询账户余额（完整记录）
func (a *API) GetBalanceInfo(ctx context.Context, ccy string) (*types.AccountBalanceInfo, error) {
	path := query.New().Opt("ccy", ccy).Path(client.EndpointBalance)

	infos, err := client.Send[[]types.AccountBalanceInfo](ctx, a.client, http.MethodGet, path, "")
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, &client.Error{Kind: client.KindEmptyResponse, Method: http.MethodGet, Path: path}
	}
	return &infos[0], nil
}

// GetBalance 查询账户余额，返回各币种明细
//
// 交易所返回空数组时报 client.ErrEmptyResponse。
func (a *API) GetBalance(ctx context.Context, ccy string) ([]types.Balance, error) {
	info, err := a.GetBalanceInfo(ctx, ccy)
	if err != nil {
		return nil, err
	}
	return info.Details, nil
}

// GetPositions 查询持仓信息
func (a *API) GetPositions(ctx context.Context, q PositionsQuery) ([]types.Position, error) {
	path := query.New().
		Opt("instType", string(q.InstType)).
		Opt("instId", q.InstID).
		Opt("posId", q.PosID).
		Path(client.EndpointPositions)

	return client.Send[[]types.Position](ctx, a.client, http.MethodGet, path, "")
}

// GetAccountPositions 查询持仓信息
//
// Deprecated: 使用 GetPositions。
func (a *API) GetAccountPositions(ctx context.Context, q PositionsQuery) ([]types.Position, error) {
	return a.GetPositions(ctx, q)
}

// GetConfig 查询账户配置
func (a *API) GetConfig(ctx context.Context) ([]types.AccountConfig, error) {
	return client.Send[[]types.AccountConfig](ctx, a.client, http.MethodGet, client.EndpointConfig, "")
}

// SetLeverage 设置杠杆倍数
func (a *API) SetLeverage(ctx context.Context, req SetLeverageRequest) (types.Document, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &client.Error{
			Kind: client.KindEncode, Method: http.MethodPost, Path: client.EndpointSetLeverage,
			Err: errors.Wrap(err, "序列化请求体失败"),
		}
	}
	return client.Send[types.Document](ctx, a.client, http.MethodPost, client.EndpointSetLeverage, string(body))
}

// GetMaxSize 获取最大可买卖/开仓数量
func (a *API) GetMaxSize(ctx context.Context, q MaxSizeQuery) (types.Document, error) {
	path := query.New().
		Set("instId", q.InstID).
		Set("tdMode", string(q.TdMode)).
		Opt("ccy", q.Ccy).
		Opt("px", q.Px).
		Opt("leverage", q.Leverage).
		Path(client.EndpointMaxSize)

	return client.Send[types.Document](ctx, a.client, http.MethodGet, path, "")
}

// GetAccountRisk 查询账户风险状态
func (a *API) GetAccountRisk(ctx context.Context) ([]types.AccountRisk, error) {
	return client.Send[[]types.AccountRisk](ctx, a.client, http.MethodGet, client.EndpointAccountRisk, "")
}

// GetBills 账单流水查询（近七天）
func (a *API) GetBills(ctx context.Context, q BillsQuery) (types.Document, error) {
	path := query.New().
		Opt("instType", string(q.InstType)).
		Opt("ccy", q.Ccy).
		Opt("mgnMode", string(q.MgnMode)).
		Opt("type", q.Type).
		Opt("begin", q.StartTime).
		Opt("end", q.EndTime).
		OptInt("limit", q.Limit).
		Path(client.EndpointBills)

	return client.Send[types.Document](ctx, a.client, http.MethodGet, path, "")
}
