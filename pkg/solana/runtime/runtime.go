// Package runtime provides an in-memory host that executes program
// instructions the way the cluster runtime does: accounts are handed to
// programs with the access mode declared by the caller, transactions commit
// atomically, and cross-program invocations are privilege checked.
package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/lending-proxy/pkg/metrics"
	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/system"
)

// MaxInvokeDepth is the maximum number of nested cross-program invocations.
const MaxInvokeDepth = 4

const (
	metricsStructName = "runtime.Runtime"

	failedTransactionMetricName = "Runtime/FailedTransactions"
	instructionCountMetricName  = "Runtime/ProcessedInstructions"
)

// Program is an on-chain program that can be registered with the runtime.
//
// Accounts are positional and mirror the instruction's account metas. The same
// key referenced more than once shares a single handle.
type Program interface {
	Process(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error

func (f ProgramFunc) Process(ctx context.Context, invoker solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	return f(ctx, invoker, programID, accounts, data)
}

type Option func(*Runtime)

// WithLogger overrides the runtime logger.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Runtime) {
		r.log = log
	}
}

// WithNewRelic wraps every transaction in a New Relic transaction.
func WithNewRelic(app *newrelic.Application) Option {
	return func(r *Runtime) {
		r.nr = app
	}
}

// Runtime is an in-memory ledger of accounts and programs. Transactions are
// serialized.
type Runtime struct {
	log *logrus.Entry
	nr  *newrelic.Application

	mu       sync.Mutex
	accounts map[string]*solana.AccountInfo
	programs map[string]Program
}

func New(opts ...Option) *Runtime {
	r := &Runtime{
		log:      logrus.StandardLogger().WithField("type", "solana/runtime"),
		accounts: make(map[string]*solana.AccountInfo),
		programs: make(map[string]Program),
	}

	for _, o := range opts {
		o(r)
	}

	return r
}

// SetAccount stores a copy of the account. Signer and writable flags are
// ignored, since they are declared per instruction.
func (r *Runtime) SetAccount(account *solana.AccountInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[keyOf(account.Key)] = stored(account)
}

// GetAccount returns a copy of the account, if it exists.
func (r *Runtime) GetAccount(key ed25519.PublicKey) (*solana.AccountInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[keyOf(key)]
	if !ok {
		return nil, false
	}
	return account.Clone(), true
}

// RegisterProgram registers program under key and creates its executable
// account if it does not already exist.
func (r *Runtime) RegisterProgram(key ed25519.PublicKey, program Program) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.programs[keyOf(key)] = program

	if account, ok := r.accounts[keyOf(key)]; ok {
		account.Executable = true
		return
	}

	r.accounts[keyOf(key)] = &solana.AccountInfo{
		Key:        append(ed25519.PublicKey(nil), key...),
		Owner:      system.NativeLoaderKey,
		Lamports:   1,
		Executable: true,
	}
}

// ProcessTransaction executes instructions in order. Either every account
// change is committed, or, on the first failing instruction, none are and a
// *solana.InstructionError carrying the program's error is returned.
func (r *Runtime) ProcessTransaction(ctx context.Context, signers []ed25519.PublicKey, instructions ...solana.Instruction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, end := metrics.StartTransaction(ctx, r.nr, "ProcessTransaction")
	defer end()

	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ProcessTransaction")
	defer tracer.End()

	log := r.log.WithFields(logrus.Fields{
		"method":       "ProcessTransaction",
		"instructions": len(instructions),
	})

	signed := make(map[string]struct{}, len(signers))
	for _, signer := range signers {
		signed[keyOf(signer)] = struct{}{}
	}

	working := make(map[string]*solana.AccountInfo, len(r.accounts))
	for k, v := range r.accounts {
		working[k] = v.Clone()
	}

	for i, instruction := range instructions {
		log := log.WithFields(logrus.Fields{
			"index":   i,
			"program": solana.KeyString(instruction.Program),
		})

		err := r.processInstruction(ctx, working, signed, instruction)
		if err != nil {
			log.WithError(err).Debug("instruction failed, discarding transaction")

			txErr := &solana.InstructionError{Index: i, Err: err}
			tracer.OnError(txErr)
			metrics.RecordCount(ctx, failedTransactionMetricName, 1)
			return txErr
		}
	}

	r.accounts = working
	log.Trace("transaction committed")
	metrics.RecordCount(ctx, instructionCountMetricName, uint64(len(instructions)))

	return nil
}

func (r *Runtime) processInstruction(ctx context.Context, working map[string]*solana.AccountInfo, signed map[string]struct{}, instruction solana.Instruction) error {
	program, ok := r.programs[keyOf(instruction.Program)]
	if !ok {
		return solana.ErrUnsupportedProgramID
	}

	for _, meta := range instruction.Accounts {
		if !meta.IsSigner {
			continue
		}
		if _, ok := signed[keyOf(meta.PublicKey)]; !ok {
			return solana.ErrMissingRequiredSignature
		}
	}

	f := newFrame(r, working, []ed25519.PublicKey{instruction.Program})

	accounts := make([]*solana.AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		accounts[i] = f.bind(meta, loadOrCreate(working, meta.PublicKey))
	}

	if err := program.Process(ctx, f, instruction.Program, accounts, instruction.Data); err != nil {
		return err
	}

	if err := f.verify(); err != nil {
		return err
	}

	f.commit(working)
	return nil
}

// verifyChanges enforces the access mode each handle was passed with against
// its state when the program was entered.
func verifyChanges(program ed25519.PublicKey, handles map[string]*solana.AccountInfo, pre map[string]*solana.AccountInfo) error {
	for k, handle := range handles {
		before := pre[k]

		lamportsChanged := before.Lamports != handle.Lamports
		dataChanged := !bytes.Equal(before.Data, handle.Data) || !bytes.Equal(before.Owner, handle.Owner)

		if !handle.IsWritable {
			if lamportsChanged {
				return solana.ErrReadonlyLamportChange
			}
			if dataChanged {
				return solana.ErrReadonlyDataModified
			}
			continue
		}

		if dataChanged && !before.IsOwnedBy(program) {
			return solana.ErrExternalAccountDataChange
		}
	}

	return nil
}

func loadOrCreate(working map[string]*solana.AccountInfo, key ed25519.PublicKey) *solana.AccountInfo {
	if account, ok := working[keyOf(key)]; ok {
		return account
	}

	return &solana.AccountInfo{
		Key:   append(ed25519.PublicKey(nil), key...),
		Owner: system.ProgramKey,
	}
}

func stored(account *solana.AccountInfo) *solana.AccountInfo {
	cloned := account.Clone()
	cloned.IsSigner = false
	cloned.IsWritable = false
	return cloned
}

func keyOf(key ed25519.PublicKey) string {
	return string(key)
}
