package gate

import "schemagate/internal/schema/types"

// ResolveMode validates a declared compatibility mode against the closed
// level set. A value outside the set is an *InvalidModeError; there is no
// silent fallback to a default level. Callers decide the absent-declaration
// case before resolving.
func ResolveMode(declared string) (types.CompatibilityLevel, error) {
	level, ok := types.ParseCompatibilityLevel(declared)
	if !ok {
		return "", &InvalidModeError{Value: declared}
	}
	return level, nil
}
