package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/brolli/brolli/internal/agent"
	"github.com/brolli/brolli/internal/cache"
	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/chain"
	"github.com/brolli/brolli/internal/chat"
	"github.com/brolli/brolli/internal/llm"
	"github.com/brolli/brolli/internal/logging"
	"github.com/brolli/brolli/internal/metrics"
	"github.com/brolli/brolli/internal/model"
	"github.com/brolli/brolli/internal/risk"
	"github.com/brolli/brolli/internal/util"
	"github.com/brolli/brolli/internal/voucher"
)

// app holds the services every command is built from
type app struct {
	cfg       *model.Config
	log       *zap.Logger
	metrics   *metrics.Metrics
	catalog   *catalog.Catalog
	engine    *risk.Engine
	responder *agent.Responder
	chat      *chat.Service
	issuer    *voucher.Issuer
	rpc       *chain.LazyClient
}

type appOptions struct {
	metrics bool
	llm     bool
}

func newApp(cfg *model.Config, opts appOptions) (*app, error) {
	logger, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger}
	if opts.metrics {
		a.metrics = metrics.New()
	}

	a.catalog, err = catalog.Load(cfg.Catalog.Dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a.engine = risk.NewEngine(a.catalog, logger.Named("risk"), a.metrics)
	a.responder = agent.NewResponder(a.catalog, agent.NewPlugin(a.catalog, a.engine), a.metrics)

	var provider llm.Provider
	if opts.llm {
		provider, err = llm.NewProvider(llm.ConfigFromModel(cfg))
		if err != nil {
			return nil, fmt.Errorf("llm provider: %w", err)
		}
	}
	a.chat = chat.NewService(a.catalog, provider, a.responder, cache.New(cfg.Cache), cfg.Cache.TTL,
		cfg.Chat, logger.Named("chat"), a.metrics)

	a.issuer, err = a.newIssuer()
	if err != nil {
		return nil, err
	}

	logger.Debug("services ready",
		zap.String("network", a.issuer.Network().String()),
		zap.Bool("llm", provider != nil),
		zap.Bool("cache", cfg.Cache.Enabled),
		logging.Redacted("signer_key", cfg.Signer.PrivateKey))
	return a, nil
}

func (a *app) newIssuer() (*voucher.Issuer, error) {
	cfg := a.cfg
	network, err := chain.ParseNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	deployments, err := chain.ParseDeployments(cfg.Chain.Deployments)
	if err != nil {
		return nil, err
	}

	rpcURL := cfg.Chain.RPCURL
	if rpcURL == "" {
		rpcURL = network.DefaultRPCURL()
	}
	a.rpc = chain.NewLazyClient(rpcURL,
		util.NewHTTPClient(cfg.Chain.Timeout, cfg.Proxy.HTTP, cfg.Proxy.HTTPS, cfg.Proxy.NoProxy))
	erc20, err := chain.NewERC20(a.rpc, cfg.Chain.Timeout)
	if err != nil {
		return nil, err
	}

	return voucher.NewIssuer(voucher.Options{
		Network:        network,
		SignerKey:      cfg.Signer.PrivateKey,
		Contract:       cfg.Chain.Contract,
		Deployments:    deployments,
		ResourceWallet: cfg.Chain.ResourceWallet,
		Token:          cfg.Chain.TokenAddress,
		Allowance:      erc20,
		MaxBatch:       cfg.Voucher.MaxBatch,
		Workers:        cfg.Voucher.Workers,
		Logger:         a.log.Named("voucher"),
		Metrics:        a.metrics,
	}), nil
}

func (a *app) Close() {
	if a.rpc != nil {
		a.rpc.Close()
	}
	_ = a.log.Sync()
}

// loadApp resolves the configuration and builds the services
func loadApp(opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, opts)
}
