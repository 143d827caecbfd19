package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/okx/okx/client"
	"github.com/betbot/okx/okx/types"
)

type call struct {
	method string
	path   string
	body   string
}

// fakeRequester 记录请求并返回预设的 data
type fakeRequester struct {
	calls []call
	data  string
	err   error
}

func (f *fakeRequester) SendRequest(_ context.Context, method, path, body string, out any) error {
	f.calls = append(f.calls, call{method: method, path: path, body: body})
	if f.err != nil {
		return f.err
	}
	if f.data == "" || out == nil {
		return nil
	}
	return json.Unmarshal([]byte(f.data), out)
}

func (f *fakeRequester) last(t *testing.T) call {
	t.Helper()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func TestGetBalanceEndToEnd(t *testing.T) {
	f := &fakeRequester{data: `[{"details":[{"ccy":"BTC","cashBal":"1.5","availBal":"1.2","frozenBal":"0.3"}],"totalEq":"100"}]`}
	api := New(f)

	balances, err := api.GetBalance(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, balances, 1)

	b := balances[0]
	assert.Equal(t, "BTC", b.Ccy)
	assert.Equal(t, "1.5", b.Balance)
	assert.Equal(t, "1.2", b.AvailableBalance)
	assert.Equal(t, "0.3", b.FrozenBalance)
	assert.Nil(t, b.Liability)
	assert.Nil(t, b.AvailableEquity)
	assert.Nil(t, b.UnrealizedPL)

	assert.Equal(t, call{method: http.MethodGet, path: "/api/v5/account/balance"}, f.last(t))
}

func TestGetBalanceWithCurrency(t *testing.T) {
	f := &fakeRequester{data: `[{"details":[]}]`}

	balances, err := New(f).GetBalance(context.Background(), "BTC,ETH")
	require.NoError(t, err)
	assert.Empty(t, balances)
	assert.Equal(t, "/api/v5/account/balance?ccy=BTC%2CETH", f.last(t).path)
}

func TestGetBalanceEmptyResponse(t *testing.T) {
	f := &fakeRequester{data: `[]`}

	_, err := New(f).GetBalance(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrEmptyResponse)
	assert.True(t, client.IsKind(err, client.KindEmptyResponse))
}

func TestGetBalanceInfo(t *testing.T) {
	f := &fakeRequester{data: `[{"totalEq":"41624.32","details":[{"ccy":"USDT","cashBal":"10","availBal":"10","frozenBal":"0","upl":"0.5"}]}]`}

	info, err := New(f).GetBalanceInfo(context.Background(), "USDT")
	require.NoError(t, err)
	assert.Equal(t, "41624.32", info.TotalEq)
	require.Len(t, info.Details, 1)
	require.NotNil(t, info.Details[0].UnrealizedPL)
	assert.Equal(t, "0.5", *info.Details[0].UnrealizedPL)
}

func TestGetPositionsQueryString(t *testing.T) {
	tests := []struct {
		name string
		q    PositionsQuery
		want string
	}{
		{name: "none", q: PositionsQuery{}, want: "/api/v5/account/positions"},
		{name: "instType", q: PositionsQuery{InstType: types.InstTypeSwap}, want: "/api/v5/account/positions?instType=SWAP"},
		{name: "instId", q: PositionsQuery{InstID: "BTC-USDT-SWAP"}, want: "/api/v5/account/positions?instId=BTC-USDT-SWAP"},
		{name: "posId", q: PositionsQuery{PosID: "307173036051017730"}, want: "/api/v5/account/positions?posId=307173036051017730"},
		{name: "instType+instId", q: PositionsQuery{InstType: types.InstTypeMargin, InstID: "BTC-USDT"}, want: "/api/v5/account/positions?instType=MARGIN&instId=BTC-USDT"},
		{name: "instType+posId", q: PositionsQuery{InstType: types.InstTypeFutures, PosID: "1"}, want: "/api/v5/account/positions?instType=FUTURES&posId=1"},
		{name: "instId+posId", q: PositionsQuery{InstID: "ETH-USDT", PosID: "2"}, want: "/api/v5/account/positions?instId=ETH-USDT&posId=2"},
		{
			name: "all",
			q:    PositionsQuery{InstType: types.InstTypeSwap, InstID: "BTC-USDT-SWAP", PosID: "3"},
			want: "/api/v5/account/positions?instType=SWAP&instId=BTC-USDT-SWAP&posId=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequester{data: `[]`}
			api := New(f)

			_, err := api.GetPositions(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, call{method: http.MethodGet, path: tt.want}, f.last(t))

			_, err = api.GetAccountPositions(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.last(t).path)
		})
	}
}

func TestGetPositionsDecodes(t *testing.T) {
	f := &fakeRequester{data: `[{"instType":"SWAP","instId":"BTC-USDT-SWAP","mgnMode":"cross","posSide":"long","pos":"2","upl":"-1.5","lever":"10"}]`}

	positions, err := New(f).GetPositions(context.Background(), PositionsQuery{})
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, types.PosSideLong, positions[0].PosSide)
	assert.Equal(t, "10", positions[0].Lever)
	pos, err := positions[0].PosDecimal()
	require.NoError(t, err)
	assert.Equal(t, "2", pos.String())
}

func TestGetConfigAndRisk(t *testing.T) {
	f := &fakeRequester{data: `[{"acctId":"1","posMode":"long_short_mode","autoLoan":true,"level":"Lv1","mgnMode":"isolated"}]`}
	api := New(f)

	cfgs, err := api.GetConfig(context.Background())
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
	assert.True(t, cfgs[0].AutoLoan)
	assert.Equal(t, types.MarginModeIsolated, cfgs[0].MarginMode)
	assert.Equal(t, call{method: http.MethodGet, path: "/api/v5/account/config"}, f.last(t))

	f.data = `[{"acctId":"1","mgnMode":"portfolio"}]`
	_, err = api.GetConfig(context.Background())
	assert.Error(t, err)

	f.data = `[{"risk":"0.1","riskLvl":"low","totalEq":"1000"}]`
	risks, err := api.GetAccountRisk(context.Background())
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "low", risks[0].RiskLevel)
	assert.Equal(t, call{method: http.MethodGet, path: "/api/v5/account/account-risk"}, f.last(t))
}

func TestSetLeverageBody(t *testing.T) {
	tests := []struct {
		name string
		req  SetLeverageRequest
		want string
	}{
		{
			name: "without posSide",
			req:  SetLeverageRequest{InstID: "BTC-USDT-SWAP", Lever: "5", MgnMode: types.MarginModeCross},
			want: `{"instId":"BTC-USDT-SWAP","lever":"5","mgnMode":"cross"}`,
		},
		{
			name: "with posSide",
			req:  SetLeverageRequest{InstID: "BTC-USDT-SWAP", Lever: "3", MgnMode: types.MarginModeIsolated, PosSide: types.PosSideShort},
			want: `{"instId":"BTC-USDT-SWAP","lever":"3","mgnMode":"isolated","posSide":"short"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequester{data: `[{"lever":"5","mgnMode":"cross","instId":"BTC-USDT-SWAP","posSide":""}]`}

			doc, err := New(f).SetLeverage(context.Background(), tt.req)
			require.NoError(t, err)

			got := f.last(t)
			assert.Equal(t, http.MethodPost, got.method)
			assert.Equal(t, "/api/v5/account/set-leverage", got.path)
			assert.JSONEq(t, tt.want, got.body)

			var body map[string]any
			require.NoError(t, json.Unmarshal([]byte(got.body), &body))
			_, hasPosSide := body["posSide"]
			assert.Equal(t, tt.req.PosSide != "", hasPosSide)

			var results []types.LeverageResult
			require.NoError(t, doc.Decode(&results))
			require.Len(t, results, 1)
			assert.Equal(t, "5", results[0].Lever)
		})
	}
}

func TestGetMaxSizeQueryString(t *testing.T) {
	tests := []struct {
		name string
		q    MaxSizeQuery
		want string
	}{
		{
			name: "required only",
			q:    MaxSizeQuery{InstID: "BTC-USDT", TdMode: types.TradeModeCash},
			want: "/api/v5/account/max-size?instId=BTC-USDT&tdMode=cash",
		},
		{
			name: "px and leverage",
			q:    MaxSizeQuery{InstID: "BTC-USDT-SWAP", TdMode: types.TradeModeCross, Px: "30000", Leverage: "10"},
			want: "/api/v5/account/max-size?instId=BTC-USDT-SWAP&tdMode=cross&px=30000&leverage=10",
		},
		{
			name: "all",
			q:    MaxSizeQuery{InstID: "BTC-USDT", TdMode: types.TradeModeIsolated, Ccy: "USDT", Px: "1", Leverage: "2"},
			want: "/api/v5/account/max-size?instId=BTC-USDT&tdMode=isolated&ccy=USDT&px=1&leverage=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequester{data: `[{"instId":"BTC-USDT","ccy":"USDT","maxBuy":"1.2","maxSell":"3"}]`}

			doc, err := New(f).GetMaxSize(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, call{method: http.MethodGet, path: tt.want}, f.last(t))

			var sizes []types.MaxSize
			require.NoError(t, doc.Decode(&sizes))
			require.Len(t, sizes, 1)
			assert.Equal(t, "1.2", sizes[0].MaxBuy)
		})
	}
}

func TestGetBillsQueryString(t *testing.T) {
	tests := []struct {
		name string
		q    BillsQuery
		want string
	}{
		{name: "none", q: BillsQuery{}, want: "/api/v5/account/bills"},
		{
			name: "begin and end",
			q:    BillsQuery{StartTime: "1696000000000", EndTime: "1697000000000"},
			want: "/api/v5/account/bills?begin=1696000000000&end=1697000000000",
		},
		{name: "limit", q: BillsQuery{Limit: 50}, want: "/api/v5/account/bills?limit=50"},
		{
			name: "all",
			q: BillsQuery{
				InstType: types.InstTypeSwap, Ccy: "USDT", MgnMode: types.MarginModeCross, Type: "2",
				StartTime: "1", EndTime: "2", Limit: 10,
			},
			want: "/api/v5/account/bills?instType=SWAP&ccy=USDT&mgnMode=cross&type=2&begin=1&end=2&limit=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequester{data: `[{"billId":"1","ccy":"USDT","balChg":"-0.1"}]`}

			doc, err := New(f).GetBills(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, call{method: http.MethodGet, path: tt.want}, f.last(t))
			assert.NotContains(t, f.last(t).path, "startTime")
			assert.NotContains(t, f.last(t).path, "endTime")

			var bills []types.Bill
			require.NoError(t, doc.Decode(&bills))
			require.Len(t, bills, 1)
			assert.Equal(t, "-0.1", bills[0].BalChg)
		})
	}
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	want := &client.Error{Kind: client.KindAPI, Code: "50001", Msg: "service unavailable"}
	f := &fakeRequester{err: want}
	api := New(f)

	_, err := api.GetBalance(context.Background(), "")
	assert.Same(t, want, err)
	_, err = api.GetPositions(context.Background(), PositionsQuery{})
	assert.Same(t, want, err)
	_, err = api.GetConfig(context.Background())
	assert.Same(t, want, err)
	_, err = api.SetLeverage(context.Background(), SetLeverageRequest{InstID: "X", Lever: "1", MgnMode: types.MarginModeCross})
	assert.Same(t, want, err)
	_, err = api.GetMaxSize(context.Background(), MaxSizeQuery{InstID: "X", TdMode: types.TradeModeCash})
	assert.Same(t, want, err)
	_, err = api.GetAccountRisk(context.Background())
	assert.Same(t, want, err)
	_, err = api.GetBills(context.Background(), BillsQuery{})
	assert.Same(t, want, err)

	assert.Len(t, f.calls, 7)
}

// TestAgainstHTTPServer 通过真实 Client 走完签名、传输与解析
func TestAgainstHTTPServer(t *testing.T) {
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[{"details":[{"ccy":"BTC","cashBal":"1.5","availBal":"1.2","frozenBal":"0.3"}]}]}`))
	}))
	defer srv.Close()

	c := client.NewClient(srv.URL,
		client.WithCredentials(types.ApiKeyCreds{Key: "k", Secret: "s", Passphrase: "p"}),
		client.WithRateLimiter(nil),
	)
	api := New(c)
	assert.Same(t, c, api.Client())

	balances, err := api.GetBalance(context.Background(), "BTC")
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "1.5", balances[0].Balance)
	assert.Equal(t, "/api/v5/account/balance?ccy=BTC", gotURI)

	srv.Close()
	_, err = api.GetConfig(context.Background())
	var e *client.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, client.KindTransport, e.Kind)
}
