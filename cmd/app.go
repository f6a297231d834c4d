package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
	"github.com/Mohsinsiddi/bidcli/internal/cache"
	"github.com/Mohsinsiddi/bidcli/internal/chain"
	"github.com/Mohsinsiddi/bidcli/internal/config"
	"github.com/Mohsinsiddi/bidcli/internal/deployment"
	"github.com/Mohsinsiddi/bidcli/internal/optimistic"
	"github.com/Mohsinsiddi/bidcli/internal/session"
	"github.com/Mohsinsiddi/bidcli/internal/store"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
	"github.com/Mohsinsiddi/bidcli/internal/wallet"
)

// app is everything a command needs to talk to the auction.
type app struct {
	wallets  *wallet.Manager
	provider *wallet.LocalProvider // nil when the node is unreachable
	resolver *deployment.Resolver
	ctl      *session.Controller
}

type appOptions struct {
	// approve prompts before the wallet hands out an account.
	approve bool
}

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}

func newResolver() *deployment.Resolver {
	sources := []deployment.Source{
		deployment.NewHTTPSource(cfg.DeploymentURL),
		deployment.FileSource{Path: cfg.DeploymentFile},
		deployment.EnvConfigSource{Path: cfg.GeneratedConfig},
	}
	return deployment.NewResolver(store.NewFileKV(cfg.StatePath()), cfg.ChainID, sources,
		deployment.WithLogger(log.Named("deployment")))
}

// newApp wires the session. A node that cannot be reached is not an error:
// the session reports it when connecting.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{wallets: newWalletManager(), resolver: newResolver()}

	var deps session.Deps
	if !cfg.Demo {
		popts := []wallet.ProviderOption{wallet.WithProviderLogger(log.Named("wallet"))}
		if opts.approve {
			popts = append(popts, wallet.WithApproval(ui.NewPrompter(stdin, stdout).ApproveAccount))
		}
		dialCtx, cancel := context.WithTimeout(ctx, config.RPCDialTimeout)
		p, err := wallet.NewLocalProvider(dialCtx, cfg.RPCURL, a.wallets, popts...)
		cancel()
		if err != nil {
			log.Warn("wallet provider unavailable", zap.Error(err))
		} else {
			a.provider = p
			deps.Wallet = p
		}
	}

	deps.Resolver = a.resolver
	deps.Registry = chain.NewRegistry()
	deps.Cache = cache.New(cache.WithLogger(log.Named("cache")))
	deps.Pending = optimistic.NewManager(optimistic.WithLogger(log.Named("optimistic")))
	deps.Contracts = a.bindContract

	a.ctl = session.New(deps, session.Options{
		ChainID:        cfg.ChainID,
		SyncInterval:   cfg.SyncEvery(),
		SyncQuiet:      cfg.SyncQuiet(),
		DemoAddDelay:   config.DemoAddDelay,
		DemoWriteDelay: config.DemoWriteDelay,
		ForceDemo:      cfg.Demo,
		Logger:         log.Named("session"),
	})
	return a, nil
}

// bindContract binds the Auction contract for account. Watch-only wallets
// get a read-only binding.
func (a *app) bindContract(_ context.Context, d *deployment.Descriptor, account common.Address) (auction.Contract, error) {
	if a.provider == nil {
		return nil, wallet.ErrNoProvider
	}
	chainID := big.NewInt(a.provider.ChainID())
	bopts := []auction.BindingOption{
		auction.WithReceiptPoll(config.ReceiptPoll),
		auction.WithBindingLogger(log.Named("auction")),
	}

	signer, err := a.provider.Signer(account)
	if err != nil {
		log.Warn("binding read-only", zap.Stringer("account", account), zap.Error(err))
		return auction.NewBinding(a.provider.Client(), d.Address(), nil, chainID, bopts...)
	}
	return auction.NewBinding(a.provider.Client(), d.Address(), signer, chainID, bopts...)
}

// connect resolves the deployment and connects. An account that was already
// approved is reused by Init.
func (a *app) connect(ctx context.Context) error {
	if err := a.ctl.Init(ctx); err != nil {
		return err
	}
	if a.ctl.State().Status == session.Connected {
		return nil
	}
	return a.ctl.Connect(ctx)
}

func (a *app) Close() {
	a.ctl.Close()
	if a.provider != nil {
		a.provider.Close()
	}
}

// withApp runs fn against a connected session.
func withApp(ctx context.Context, opts appOptions, fn func(*app) error) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.connect(ctx); err != nil {
		return err
	}
	if msg := a.ctl.State().Error; msg != "" {
		fmt.Fprintln(stderr, ui.Warn(msg))
	}
	return fn(a)
}

// explain turns known errors into a message plus a next step.
func explain(err error) string {
	var ce *session.ConnectError
	switch {
	case errors.As(err, &ce) && ce.Kind == session.KindNoProvider:
		return ui.Err(ce.Error()) + "\n" + ui.Hint("Start a node with `npx hardhat node` or pass --demo")
	case errors.As(err, &ce) && ce.Kind == session.KindNoAccounts:
		return ui.Err(ce.Error()) + "\n" + ui.Hint("Import a key with `bidcli wallet import <name>`")
	case errors.Is(err, session.ErrNotConnected):
		return ui.Err(err.Error()) + "\n" + ui.Hint("Run `bidcli deployment refresh` after deploying the contract")
	case errors.Is(err, auction.ErrReadOnly), errors.Is(err, wallet.ErrWatchOnly):
		return ui.Err(err.Error()) + "\n" + ui.Hint("Select a signing wallet with `bidcli wallet use <name>`")
	case errors.Is(err, wallet.ErrWalletNotFound):
		return ui.Err(err.Error()) + "\n" + ui.Hint("List wallets with `bidcli wallet list`")
	}
	return ui.Err(err.Error())
}
