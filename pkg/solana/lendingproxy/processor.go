package lendingproxy

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/lending-proxy/pkg/metrics"
	"github.com/code-payments/lending-proxy/pkg/solana"
)

type Option func(*Processor)

// WithLendingProgram pins the lending program deposits may be forwarded to.
// Without it, any program passed as the lending program account is trusted to
// own the lending market and reserve.
func WithLendingProgram(program ed25519.PublicKey) Option {
	return func(p *Processor) {
		p.lendingProgram = program
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(p *Processor) {
		p.log = log
	}
}

// Processor is the lending proxy program entrypoint.
type Processor struct {
	log            *logrus.Entry
	lendingProgram ed25519.PublicKey
}

func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		log: logrus.StandardLogger().WithField("type", "lendingproxy/processor"),
	}

	for _, o := range opts {
		o(p)
	}

	return p
}

// Process decodes, validates and executes a single lending proxy instruction.
// Errors raised by the lending program are returned unchanged.
func (p *Processor) Process(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Process")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":  "Process",
		"program": solana.KeyString(programID),
	})

	instruction, err := Unpack(data)
	if err != nil {
		log.WithError(err).Debug("invalid instruction data")
		tracer.OnError(err)
		return err
	}

	log = log.WithField("instruction", instruction.Command().String())
	tracer.AddAttribute("instruction", instruction.Command().String())

	switch typed := instruction.(type) {
	case *DepositReserveLiquidity:
		log.Debug("Instruction: Deposit Reserve Liquidity")
		err = p.processDepositReserveLiquidity(ctx, log, invoker, accounts, typed)
	default:
		err = ErrorInvalidInstruction
	}

	tracer.OnError(err)
	return err
}

func (p *Processor) processDepositReserveLiquidity(ctx context.Context, log *logrus.Entry, invoker solana.Invoker, accounts []*solana.AccountInfo, instruction *DepositReserveLiquidity) (err error) {
	start := time.Now()

	var bound *DepositReserveLiquidityAccounts
	defer func() {
		recordDepositEvent(ctx, start, bound, instruction.LiquidityAmount, err)
	}()

	log = log.WithField("liquidity_amount", instruction.LiquidityAmount)

	if instruction.LiquidityAmount == 0 {
		log.Debug("amount provided cannot be zero")
		return ErrorInvalidAmount
	}

	bound, err = LoadDepositReserveLiquidityAccounts(accounts, p.lendingProgram)
	if err != nil {
		log.WithError(err).Debug("invalid deposit accounts")
		return err
	}

	log = log.WithFields(logrus.Fields{
		"reserve":         solana.KeyString(bound.Reserve.Key),
		"lending_market":  solana.KeyString(bound.LendingMarket.Key),
		"lending_program": solana.KeyString(bound.LendingProgram.Key),
	})

	v := &validator{log: log}
	if _, err = v.validate(bound, instruction.LiquidityAmount); err != nil {
		return err
	}

	invocation, err := NewLendingDepositInvocation(bound, instruction.LiquidityAmount)
	if err != nil {
		log.WithError(err).Warn("failure building lending deposit")
		return solana.ErrInvalidArgument
	}

	if err = invoker.Invoke(ctx, invocation, bound.All()); err != nil {
		log.WithError(err).Debug("lending deposit failed")
		return err
	}

	log.Debug("deposited reserve liquidity")
	return nil
}
