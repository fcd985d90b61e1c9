// Package quota defines the violation values produced by the per-provider
// free-tier validators. A violation is a human-readable string; hard
// failures carry the "ERROR: " prefix and advisory conditions carry
// "WARN: ". Only ERROR-class violations block deployment.
package quota

import (
	"fmt"
	"strings"
)

// Violation is a single validation finding.
type Violation string

// Errorf formats a blocking violation.
func Errorf(format string, args ...any) Violation {
	return Violation("ERROR: " + fmt.Sprintf(format, args...))
}

// Warnf formats an advisory-only violation.
func Warnf(format string, args ...any) Violation {
	return Violation("WARN: " + fmt.Sprintf(format, args...))
}

// IsError reports whether the violation blocks deployment.
func (v Violation) IsError() bool {
	return strings.HasPrefix(string(v), "ERROR")
}

// IsWarning reports whether the violation is advisory only.
func (v Violation) IsWarning() bool {
	return strings.HasPrefix(string(v), "WARN")
}

func (v Violation) String() string { return string(v) }

// Blocking filters a violation list down to the ERROR-class entries.
func Blocking(violations []Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.IsError() {
			out = append(out, v)
		}
	}
	return out
}
