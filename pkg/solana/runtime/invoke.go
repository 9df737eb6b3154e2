package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/lending-proxy/pkg/solana"
)

// frame is the execution context of a single program invocation. It is the
// solana.Invoker handed to the running program.
type frame struct {
	rt      *Runtime
	working map[string]*solana.AccountInfo

	// stack holds the programs of this frame and every caller, innermost last.
	stack []ed25519.PublicKey

	handles map[string]*solana.AccountInfo
	pre     map[string]*solana.AccountInfo
}

func newFrame(rt *Runtime, working map[string]*solana.AccountInfo, stack []ed25519.PublicKey) *frame {
	return &frame{
		rt:      rt,
		working: working,
		stack:   stack,
		handles: make(map[string]*solana.AccountInfo),
		pre:     make(map[string]*solana.AccountInfo),
	}
}

func (f *frame) program() ed25519.PublicKey {
	return f.stack[len(f.stack)-1]
}

// bind returns the frame's handle for the account described by meta, creating
// it from source on first reference. Repeated references share the handle and
// accumulate privileges.
func (f *frame) bind(meta solana.AccountMeta, source *solana.AccountInfo) *solana.AccountInfo {
	k := keyOf(meta.PublicKey)

	handle, ok := f.handles[k]
	if !ok {
		handle = source.Clone()
		handle.IsSigner = false
		handle.IsWritable = false

		f.handles[k] = handle
		f.pre[k] = handle.Clone()
	}

	handle.IsSigner = handle.IsSigner || meta.IsSigner
	handle.IsWritable = handle.IsWritable || meta.IsWritable

	return handle
}

func (f *frame) verify() error {
	return verifyChanges(f.program(), f.handles, f.pre)
}

// commit writes changes to writable accounts into the working set.
func (f *frame) commit(working map[string]*solana.AccountInfo) {
	for k, handle := range f.handles {
		if handle.IsWritable {
			working[k] = stored(handle)
		}
	}
}

// Invoke implements solana.Invoker.
func (f *frame) Invoke(ctx context.Context, instruction solana.Instruction, accounts []*solana.AccountInfo) error {
	log := f.rt.log.WithFields(logrus.Fields{
		"method":  "Invoke",
		"caller":  solana.KeyString(f.program()),
		"program": solana.KeyString(instruction.Program),
		"depth":   len(f.stack),
	})

	if len(f.stack) > MaxInvokeDepth {
		return solana.ErrCallDepth
	}

	for _, caller := range f.stack[:len(f.stack)-1] {
		if bytes.Equal(caller, instruction.Program) {
			return solana.ErrReentrancyNotAllowed
		}
	}

	program, ok := f.rt.programs[keyOf(instruction.Program)]
	if !ok {
		return solana.ErrUnsupportedProgramID
	}

	passed := make(map[string]*solana.AccountInfo, len(accounts))
	for _, account := range accounts {
		if account == nil {
			continue
		}

		// Only handles the caller itself received may be forwarded.
		k := keyOf(account.Key)
		if handle, ok := f.handles[k]; !ok || handle != account {
			return solana.ErrMissingAccount
		}
		passed[k] = account
	}

	programAccount, ok := passed[keyOf(instruction.Program)]
	if !ok {
		return solana.ErrMissingAccount
	}
	if !programAccount.Executable {
		return solana.ErrAccountNotExecutable
	}

	// Changes made by the caller so far are checked before the callee can
	// observe them.
	if err := f.verify(); err != nil {
		return err
	}

	callee := newFrame(f.rt, f.working, append(append([]ed25519.PublicKey(nil), f.stack...), instruction.Program))

	calleeAccounts := make([]*solana.AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		source, ok := passed[keyOf(meta.PublicKey)]
		if !ok {
			log.WithField("account", solana.KeyString(meta.PublicKey)).Debug("account not passed to invocation")
			return solana.ErrMissingAccount
		}

		if meta.IsWritable && !source.IsWritable {
			log.WithField("account", solana.KeyString(meta.PublicKey)).Debug("writable privilege escalated")
			return solana.ErrPrivilegeEscalation
		}
		if meta.IsSigner && !source.IsSigner {
			log.WithField("account", solana.KeyString(meta.PublicKey)).Debug("signer privilege escalated")
			return solana.ErrPrivilegeEscalation
		}

		calleeAccounts[i] = callee.bind(meta, source)
	}

	if err := program.Process(ctx, callee, instruction.Program, calleeAccounts, instruction.Data); err != nil {
		log.WithError(err).Debug("invoked program failed")
		return err
	}

	if err := callee.verify(); err != nil {
		return err
	}

	for k, handle := range callee.handles {
		if !handle.IsWritable {
			continue
		}

		target := f.handles[k]
		target.Owner = append(ed25519.PublicKey(nil), handle.Owner...)
		target.Lamports = handle.Lamports
		target.Data = append([]byte(nil), handle.Data...)

		// The callee's changes are not attributed to the caller.
		f.pre[k] = target.Clone()
	}

	return nil
}
