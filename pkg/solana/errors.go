package solana

import (
	"fmt"
)

// InstructionErrorKey is the string key of a builtin instruction error.
//
// Source: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/instruction.rs#L23
type InstructionErrorKey string

const (
	InstructionErrorGenericError              InstructionErrorKey = "GenericError"
	InstructionErrorInvalidArgument           InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData    InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInvalidAccountData        InstructionErrorKey = "InvalidAccountData"
	InstructionErrorAccountDataTooSmall       InstructionErrorKey = "AccountDataTooSmall"
	InstructionErrorIncorrectProgramID        InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature  InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorUninitializedAccount      InstructionErrorKey = "UninitializedAccount"
	InstructionErrorReadonlyLamportChange     InstructionErrorKey = "ReadonlyLamportChange"
	InstructionErrorReadonlyDataModified      InstructionErrorKey = "ReadonlyDataModified"
	InstructionErrorExternalAccountDataChange InstructionErrorKey = "ExternalAccountDataModified"
	InstructionErrorNotEnoughAccountKeys      InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorAccountNotExecutable      InstructionErrorKey = "AccountNotExecutable"
	InstructionErrorCustom                    InstructionErrorKey = "Custom"
	InstructionErrorUnsupportedProgramID      InstructionErrorKey = "UnsupportedProgramId"
	InstructionErrorCallDepth                 InstructionErrorKey = "CallDepth"
	InstructionErrorMissingAccount            InstructionErrorKey = "MissingAccount"
	InstructionErrorPrivilegeEscalation       InstructionErrorKey = "PrivilegeEscalation"
	InstructionErrorReentrancyNotAllowed      InstructionErrorKey = "ReentrancyNotAllowed"
)

// ProgramError is a builtin error returned by a program or by the host while
// executing one.
type ProgramError InstructionErrorKey

func (e ProgramError) Error() string {
	return string(e)
}

var (
	ErrGenericError              = ProgramError(InstructionErrorGenericError)
	ErrInvalidArgument           = ProgramError(InstructionErrorInvalidArgument)
	ErrInvalidInstructionData    = ProgramError(InstructionErrorInvalidInstructionData)
	ErrInvalidAccountData        = ProgramError(InstructionErrorInvalidAccountData)
	ErrAccountDataTooSmall       = ProgramError(InstructionErrorAccountDataTooSmall)
	ErrIncorrectProgramID        = ProgramError(InstructionErrorIncorrectProgramID)
	ErrMissingRequiredSignature  = ProgramError(InstructionErrorMissingRequiredSignature)
	ErrUninitializedAccount      = ProgramError(InstructionErrorUninitializedAccount)
	ErrReadonlyLamportChange     = ProgramError(InstructionErrorReadonlyLamportChange)
	ErrReadonlyDataModified      = ProgramError(InstructionErrorReadonlyDataModified)
	ErrExternalAccountDataChange = ProgramError(InstructionErrorExternalAccountDataChange)
	ErrNotEnoughAccountKeys      = ProgramError(InstructionErrorNotEnoughAccountKeys)
	ErrAccountNotExecutable      = ProgramError(InstructionErrorAccountNotExecutable)
	ErrUnsupportedProgramID      = ProgramError(InstructionErrorUnsupportedProgramID)
	ErrCallDepth                 = ProgramError(InstructionErrorCallDepth)
	ErrMissingAccount            = ProgramError(InstructionErrorMissingAccount)
	ErrPrivilegeEscalation       = ProgramError(InstructionErrorPrivilegeEscalation)
	ErrReentrancyNotAllowed      = ProgramError(InstructionErrorReentrancyNotAllowed)
)

// CustomError is the numerical error returned by a non-system program.
type CustomError uint32

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", uint32(c))
}

// InstructionError indicates an instruction returned an error in a transaction.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) Unwrap() error {
	return i.Err
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	switch e := i.Err.(type) {
	case nil:
		return ""
	case CustomError:
		return InstructionErrorCustom
	case ProgramError:
		return InstructionErrorKey(e)
	default:
		return InstructionErrorGenericError
	}
}

func (i InstructionError) CustomError() *CustomError {
	ce, ok := i.Err.(CustomError)
	if ok {
		return &ce
	}

	return nil
}
