package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/betbot/okx/okx/api/account"
	"github.com/betbot/okx/okx/client"
	"github.com/betbot/okx/okx/types"
	"github.com/betbot/okx/pkg/config"
	"github.com/betbot/okx/pkg/logger"
	"github.com/betbot/okx/pkg/persistence"
)

// runner 命令共享的状态，执行命令前初始化
type runner struct {
	cfg       *config.Config
	api       *account.API
	snapshots *persistence.JSONFileService
}

func newApp() *cli.App {
	r := &runner{}

	return &cli.App{
		Name:  "okx-account",
		Usage: "查询 OKX 账户余额、持仓、配置与账单",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML 配置文件路径", EnvVars: []string{"OKX_CONFIG"}},
			&cli.BoolFlag{Name: "simulated", Usage: "使用模拟盘（覆盖配置）"},
			&cli.StringFlag{Name: "log-level", Usage: "日志级别（覆盖配置）"},
			&cli.StringFlag{Name: "snapshot-dir", Usage: "把每次结果保存为 JSON 快照的目录", EnvVars: []string{"OKX_SNAPSHOT_DIR"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "balance",
				Usage: "账户余额",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ccy", Usage: "币种，多个用逗号分隔"},
					&cli.BoolFlag{Name: "all", Usage: "包含余额为零的币种"},
				},
				Action: r.with(r.balance),
			},
			{
				Name:  "positions",
				Usage: "持仓信息",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "inst-type", Usage: "MARGIN/SWAP/FUTURES/OPTION"},
					&cli.StringFlag{Name: "inst-id"},
					&cli.StringFlag{Name: "pos-id"},
				},
				Action: r.with(r.positions),
			},
			{
				Name:   "config",
				Usage:  "账户配置",
				Action: r.with(r.accountConfig),
			},
			{
				Name:   "risk",
				Usage:  "账户风险状态",
				Action: r.with(r.risk),
			},
			{
				Name:   "summary",
				Usage:  "并发查询余额、持仓与风险",
				Action: r.with(r.summary),
			},
			{
				Name:  "max-size",
				Usage: "最大可买卖/开仓数量",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "inst-id", Required: true},
					&cli.StringFlag{Name: "td-mode", Required: true, Usage: "cross/isolated/cash"},
					&cli.StringFlag{Name: "ccy"},
					&cli.StringFlag{Name: "px"},
					&cli.StringFlag{Name: "leverage"},
				},
				Action: r.with(r.maxSize),
			},
			{
				Name:  "bills",
				Usage: "账单流水（近七天）",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "inst-type"},
					&cli.StringFlag{Name: "ccy"},
					&cli.StringFlag{Name: "mgn-mode"},
					&cli.StringFlag{Name: "type"},
					&cli.StringFlag{Name: "begin", Usage: "开始时间（毫秒时间戳）"},
					&cli.StringFlag{Name: "end", Usage: "结束时间（毫秒时间戳）"},
					&cli.IntFlag{Name: "limit", Usage: "返回条数，最大 100"},
				},
				Action: r.with(r.bills),
			},
			{
				Name:  "set-leverage",
				Usage: "设置杠杆倍数",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "inst-id", Required: true},
					&cli.StringFlag{Name: "lever", Required: true},
					&cli.StringFlag{Name: "mgn-mode", Required: true, Usage: "cross/isolated"},
					&cli.StringFlag{Name: "pos-side", Usage: "long/short，仅开平仓模式的逐仓需要"},
				},
				Action: r.with(r.setLeverage),
			},
			{
				Name:  "snapshots",
				Usage: "查看 --snapshot-dir 中保存的快照",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "列出快照",
						Flags:  []cli.Flag{&cli.StringFlag{Name: "kind", Usage: "只列出该命令的快照，如 balance"}},
						Action: r.listSnapshots,
					},
					{
						Name:      "show",
						Usage:     "输出一份快照",
						ArgsUsage: "<kind> <id>",
						Action:    r.showSnapshot,
					},
				},
			},
		},
	}
}

// with 在执行命令前加载配置并创建客户端；help 不需要凭证
func (r *runner) with(action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := r.init(c); err != nil {
			return err
		}
		return action(c)
	}
}

func (r *runner) init(c *cli.Context) error {
	config.SetConfigPath(c.String("config"))
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("simulated") {
		cfg.Simulated = c.Bool("simulated")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
		JSON:       cfg.LogJSON,
		Console:    c.App.ErrWriter,
	}); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	if err := cfg.ResolveCredentials(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if f := logger.GetCurrentLogFile(); f != "" {
		logger.Debugf("[okx-account] 日志文件: %s", f)
	}

	cl, err := client.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	r.cfg = cfg
	r.api = account.New(cl)
	if dir := c.String("snapshot-dir"); dir != "" {
		r.snapshots = persistence.NewJSONFileService(dir)
	}
	logger.Debugf("[okx-account] host=%s simulated=%v", cfg.Host, cfg.Simulated)
	return nil
}

// output 打印 JSON 结果，并按需保存快照
func (r *runner) output(c *cli.Context, kind string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(c.App.Writer, string(b)); err != nil {
		return err
	}

	if r.snapshots == nil {
		return nil
	}
	id, err := persistence.SaveSnapshot(r.snapshots, persistence.Snapshot{
		Kind:      kind,
		Host:      r.cfg.Host,
		Simulated: r.cfg.Simulated,
		TakenAt:   time.Now(),
	}, v)
	if err != nil {
		return fmt.Errorf("保存快照失败: %w", err)
	}
	logger.Infof("[okx-account] 快照已保存: %s/%s", kind, id)
	return nil
}

func (r *runner) balance(c *cli.Context) error {
	balances, err := r.api.GetBalance(c.Context, c.String("ccy"))
	if err != nil {
		return err
	}
	if !c.Bool("all") {
		balances = lo.Filter(balances, func(b types.Balance, _ int) bool {
			return !b.IsZero()
		})
	}
	return r.output(c, "balance", balances)
}

func (r *runner) positions(c *cli.Context) error {
	instType, err := parseInstType(c.String("inst-type"))
	if err != nil {
		return err
	}
	positions, err := r.api.GetPositions(c.Context, account.PositionsQuery{
		InstType: instType,
		InstID:   c.String("inst-id"),
		PosID:    c.String("pos-id"),
	})
	if err != nil {
		return err
	}
	return r.output(c, "positions", positions)
}

func (r *runner) accountConfig(c *cli.Context) error {
	cfgs, err := r.api.GetConfig(c.Context)
	if err != nil {
		return err
	}
	return r.output(c, "config", cfgs)
}

func (r *runner) risk(c *cli.Context) error {
	risks, err := r.api.GetAccountRisk(c.Context)
	if err != nil {
		return err
	}
	return r.output(c, "risk", risks)
}

func (r *runner) summary(c *cli.Context) error {
	s, err := r.api.GetSummary(c.Context)
	if err != nil {
		return err
	}
	return r.output(c, "summary", s)
}

func (r *runner) maxSize(c *cli.Context) error {
	tdMode := types.TradeMode(c.String("td-mode"))
	if !lo.Contains([]types.TradeMode{types.TradeModeCross, types.TradeModeIsolated, types.TradeModeCash}, tdMode) {
		return fmt.Errorf("未知的交易模式: %q", tdMode)
	}
	doc, err := r.api.GetMaxSize(c.Context, account.MaxSizeQuery{
		InstID:   c.String("inst-id"),
		TdMode:   tdMode,
		Ccy:      c.String("ccy"),
		Px:       c.String("px"),
		Leverage: c.String("leverage"),
	})
	if err != nil {
		return err
	}
	return r.output(c, "max-size", doc)
}

func (r *runner) bills(c *cli.Context) error {
	instType, err := parseInstType(c.String("inst-type"))
	if err != nil {
		return err
	}
	mgnMode, err := parseMarginMode(c.String("mgn-mode"), true)
	if err != nil {
		return err
	}
	doc, err := r.api.GetBills(c.Context, account.BillsQuery{
		InstType:  instType,
		Ccy:       c.String("ccy"),
		MgnMode:   mgnMode,
		Type:      c.String("type"),
		StartTime: c.String("begin"),
		EndTime:   c.String("end"),
		Limit:     c.Int("limit"),
	})
	if err != nil {
		return err
	}
	return r.output(c, "bills", doc)
}

func (r *runner) setLeverage(c *cli.Context) error {
	mgnMode, err := parseMarginMode(c.String("mgn-mode"), false)
	if err != nil {
		return err
	}
	posSide := types.PosSide(c.String("pos-side"))
	if posSide != "" && !lo.Contains([]types.PosSide{types.PosSideLong, types.PosSideShort}, posSide) {
		return fmt.Errorf("未知的持仓方向: %q", posSide)
	}
	doc, err := r.api.SetLeverage(c.Context, account.SetLeverageRequest{
		InstID:  c.String("inst-id"),
		Lever:   c.String("lever"),
		MgnMode: mgnMode,
		PosSide: posSide,
	})
	if err != nil {
		return err
	}
	return r.output(c, "set-leverage", doc)
}

// snapshotService 快照命令只读本地目录，不需要凭证
func (r *runner) snapshotService(c *cli.Context) (*persistence.JSONFileService, error) {
	dir := c.String("snapshot-dir")
	if dir == "" {
		return nil, fmt.Errorf("需要 --snapshot-dir 或 OKX_SNAPSHOT_DIR")
	}
	if logger.Logger == nil {
		if err := logger.InitDefault(); err != nil {
			return nil, fmt.Errorf("初始化日志失败: %w", err)
		}
	}
	return persistence.NewJSONFileService(dir), nil
}

func (r *runner) listSnapshots(c *cli.Context) error {
	svc, err := r.snapshotService(c)
	if err != nil {
		return err
	}
	refs, err := persistence.ListSnapshots(svc, c.String("kind"))
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if _, err := fmt.Fprintf(c.App.Writer, "%s\t%s\n", ref.Kind, ref.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) showSnapshot(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("用法: snapshots show <kind> <id>")
	}
	svc, err := r.snapshotService(c)
	if err != nil {
		return err
	}
	snap, err := persistence.LoadSnapshot(svc, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("读取快照失败: %w", err)
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(b))
	return err
}

func parseInstType(s string) (types.InstType, error) {
	if s == "" {
		return "", nil
	}
	it := types.InstType(strings.ToUpper(s))
	known := []types.InstType{
		types.InstTypeSpot, types.InstTypeMargin, types.InstTypeSwap, types.InstTypeFutures, types.InstTypeOption,
	}
	if !lo.Contains(known, it) {
		return "", fmt.Errorf("未知的产品类型: %q", s)
	}
	return it, nil
}

func parseMarginMode(s string, optional bool) (types.MarginMode, error) {
	if s == "" && optional {
		return "", nil
	}
	m := types.MarginMode(strings.ToLower(s))
	if !m.Valid() {
		return "", fmt.Errorf("未知的保证金模式: %q", s)
	}
	return m, nil
}
