package account

import (
	"context"

	"github.com/betbot/okx/okx/types"
	"github.com/betbot/okx/pkg/syncgroup"
)

// Summary 账户概览：余额、持仓、风险
type Summary struct {
	Balance   *types.AccountBalanceInfo `json:"balance"`
	Positions []types.Position          `json:"positions"`
	Risk      []types.AccountRisk       `json:"risk"`
}

// GetSummary 并发查询余额、持仓与风险状态，任一失败即取消其余请求并返回该错误
func (a *API) GetSummary(ctx context.Context) (*Summary, error) {
	var s Summary

	sg, ctx := syncgroup.WithContext(ctx)
	sg.Add(func() (err error) {
		s.Balance, err = a.GetBalanceInfo(ctx, "")
		return err
	})
	sg.Add(func() (err error) {
		s.Positions, err = a.GetPositions(ctx, PositionsQuery{})
		return err
	})
	sg.Add(func() (err error) {
		s.Risk, err = a.GetAccountRisk(ctx)
		return err
	})
	sg.Run()

	if err := sg.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}
