// Package lendingproxy implements a program that validates a deposit against
// SPL token-lending state before forwarding it to the lending program through a
// cross-program invocation.
package lendingproxy

import (
	"math"
)

type Command byte

const (
	CommandDepositReserveLiquidity Command = iota

	CommandUnknown = Command(math.MaxUint8)
)

func (c Command) String() string {
	switch c {
	case CommandDepositReserveLiquidity:
		return "DepositReserveLiquidity"
	default:
		return "Unknown"
	}
}

// Instruction is a decoded lending proxy instruction.
type Instruction interface {
	Command() Command
	Marshal() []byte
}

// Unpack decodes instruction data. Only byte sequences produced by Marshal are
// accepted; anything else fails with ErrorInvalidInstruction.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, ErrorInvalidInstruction
	}

	switch Command(data[0]) {
	case CommandDepositReserveLiquidity:
		var instruction DepositReserveLiquidity
		if err := instruction.Unmarshal(data); err != nil {
			return nil, err
		}
		return &instruction, nil
	default:
		return nil, ErrorInvalidInstruction
	}
}
