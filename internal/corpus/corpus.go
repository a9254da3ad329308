// Package corpus bundles a long English sample used by the demo command and
// by tests that need realistic letter statistics.
package corpus

import (
	_ "embed"
)

//go:embed english.txt
var english string

// English returns the bundled English sample text.
func English() string {
	return english
}
