package sqlpool

import (
	"fmt"
	"strings"
)

// IncompleteDSNError indicates that the compound DSN has no primary DSN.
type IncompleteDSNError struct {
	DSN string
}

func (e IncompleteDSNError) Error() string {
	return fmt.Sprintf("sqlpool: compound DSN is incomplete: %#v", e.DSN)
}

// MakeCompoundDSN combines primary and replica DSNs to build a compound DSN.
func MakeCompoundDSN(primaryDSN string, replicaDSNs ...string) string {
	return strings.Join(append([]string{primaryDSN}, replicaDSNs...), ";")
}

// ParseCompoundDSN breaks up a compound DSN into its component DSNs. The
// first DSN is the primary, any others are replicas. Empty components are
// skipped.
func ParseCompoundDSN(dsn string) (string, []string) {
	dsns := []string{}
	for _, part := range strings.Split(dsn, ";") {
		if part != "" {
			dsns = append(dsns, part)
		}
	}
	if len(dsns) == 0 {
		return "", nil
	}
	return dsns[0], dsns[1:]
}
