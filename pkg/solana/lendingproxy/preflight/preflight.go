// Package preflight runs the lending proxy's deposit checks against on-chain
// state fetched over RPC, so a caller can reject a deposit before paying to
// submit it.
package preflight

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/lending-proxy/pkg/metrics"
	"github.com/code-payments/lending-proxy/pkg/rate"
	"github.com/code-payments/lending-proxy/pkg/retry"
	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/lendingproxy"
	"github.com/code-payments/lending-proxy/pkg/solana/token"
)

const (
	metricsStructName = "preflight.Checker"

	maxRPCBackoff = 5 * time.Second

	getMultipleAccountsMethod = "getMultipleAccounts"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("source liquidity balance is less than the deposit amount")
	ErrMintMismatch        = errors.New("source liquidity mint does not match the reserve liquidity mint")
)

// Checker validates deposits ahead of submission.
type Checker struct {
	log     *logrus.Entry
	client  solana.Client
	conf    *conf
	limiter rate.Limiter
}

// New returns a Checker reading accounts through client. The RPC rate limit
// is read once, here.
func New(client solana.Client, configProvider ConfigProvider) *Checker {
	conf := configProvider()

	return &Checker{
		log:     logrus.StandardLogger().WithField("type", "lendingproxy/preflight"),
		client:  client,
		conf:    conf,
		limiter: rate.NewLocalLimiter(conf.rpcRateLimit.Get(context.Background())),
	}
}

// CheckDeposit fetches the accounts a deposit touches and runs the checks the
// lending proxy will run on-chain. Program errors are returned unwrapped, so
// they compare equal to the errors the deposit would fail with.
func (c *Checker) CheckDeposit(ctx context.Context, accounts *lendingproxy.DepositReserveLiquidityInstructionAccounts, amount uint64) (*lendingproxy.DepositState, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "CheckDeposit")
	defer tracer.End()

	log := c.log.WithFields(logrus.Fields{
		"method":  "CheckDeposit",
		"reserve": solana.KeyString(accounts.Reserve),
		"amount":  amount,
	})

	state, err := c.checkDeposit(ctx, log, accounts, amount)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return state, nil
}

func (c *Checker) checkDeposit(ctx context.Context, log *logrus.Entry, accounts *lendingproxy.DepositReserveLiquidityInstructionAccounts, amount uint64) (*lendingproxy.DepositState, error) {
	if amount == 0 {
		return nil, lendingproxy.ErrorInvalidAmount
	}

	lendingProgram := c.conf.lendingProgram.Get(ctx)
	if len(accounts.LendingProgram) > 0 && !bytes.Equal(accounts.LendingProgram, lendingProgram) {
		log.Debug("deposit targets a lending program other than the configured one")
		return nil, lendingproxy.ErrorIncorrectProgramID
	}

	withProgram := *accounts
	withProgram.LendingProgram = lendingProgram

	// The proxy program id only names the instruction; it is never fetched.
	instruction, err := lendingproxy.NewDepositReserveLiquidityInstruction(lendingProgram, &withProgram, &lendingproxy.DepositReserveLiquidityInstructionArgs{
		LiquidityAmount: amount,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build deposit instruction")
	}

	fetched, err := c.fetch(ctx, accounts.SourceLiquidity, accounts.LendingMarket, accounts.Reserve)
	if err != nil {
		log.WithError(err).Warn("failure fetching deposit accounts")
		return nil, err
	}

	handles := make([]*solana.AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		handle, ok := fetched[string(meta.PublicKey)]
		if ok {
			handle = handle.Clone()
		} else {
			handle = &solana.AccountInfo{Key: meta.PublicKey}
		}
		handle.IsSigner = meta.IsSigner
		handle.IsWritable = meta.IsWritable
		handles[i] = handle
	}

	bound, err := lendingproxy.LoadDepositReserveLiquidityAccounts(handles, lendingProgram)
	if err != nil {
		return nil, err
	}

	state, err := lendingproxy.ValidateDepositReserveLiquidity(bound, amount)
	if err != nil {
		log.WithError(err).Debug("deposit failed validation")
		return nil, err
	}

	if c.conf.checkSourceBalance.Get(ctx) {
		if err := checkSource(bound.SourceLiquidity, state, amount); err != nil {
			log.WithError(err).Debug("source liquidity cannot fund deposit")
			return nil, err
		}
	}

	return state, nil
}

// fetch loads the accounts in a single request, retrying transient RPC
// failures. Every account must exist.
func (c *Checker) fetch(ctx context.Context, keys ...ed25519.PublicKey) (map[string]*solana.AccountInfo, error) {
	commitment := solana.CommitmentFromString(c.conf.rpcCommitment.Get(ctx))

	var infos []*solana.AccountInfo
	_, err := retry.Retry(
		ctx,
		func(context.Context) error {
			if !c.limiter.Allow(getMultipleAccountsMethod) {
				return solana.ErrRateLimited
			}

			var err error
			infos, err = c.client.GetMultipleAccounts(keys, commitment)
			return err
		},
		retry.Limit(uint(c.conf.maxRPCAttempts.Get(ctx))),
		retry.RetriableErrors(solana.ErrRateLimited, solana.ErrServiceUnavailable),
		retry.ExponentialBackoff(c.conf.rpcBackoff.Get(ctx), maxRPCBackoff, 0.1),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deposit accounts")
	}

	fetched := make(map[string]*solana.AccountInfo, len(keys))
	for i, info := range infos {
		if info == nil {
			return nil, errors.Wrapf(ErrAccountNotFound, "account %s", solana.KeyString(keys[i]))
		}
		fetched[string(keys[i])] = info
	}
	return fetched, nil
}

func checkSource(source *solana.AccountInfo, state *lendingproxy.DepositState, amount uint64) error {
	var account token.Account
	if err := account.Unmarshal(source.Data); err != nil {
		return err
	}

	if !bytes.Equal(account.Mint, state.Reserve.Liquidity.MintPubkey) {
		return ErrMintMismatch
	}
	if account.Amount < amount {
		return ErrInsufficientBalance
	}
	return nil
}
