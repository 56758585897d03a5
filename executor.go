package chaindump

import "github.com/ethereum/go-ethereum/core/types"

// StateExecutor applies a block's transactions to persisted state and enforces
// consensus rules. It is an external collaborator: import runs each appended
// block through it before commit when one is configured, and skips execution
// entirely in no-state mode (nil executor), which is faster but performs no
// state validation.
type StateExecutor interface {
	Execute(block *types.Block) error
}

// ExecutorFunc adapts a plain function to the StateExecutor interface.
type ExecutorFunc func(block *types.Block) error

// Execute implements StateExecutor.
func (f ExecutorFunc) Execute(block *types.Block) error {
	return f(block)
}
