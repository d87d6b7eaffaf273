package typescript

import _ "embed"

//go:embed EnumRuntime.ts
var runtimeSource []byte

// RuntimeSource returns the shared runtime module used by StrategyRuntime.
func RuntimeSource() []byte {
	return append([]byte(nil), runtimeSource...)
}
