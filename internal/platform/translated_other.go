//go:build !darwin

package platform

// translated is darwin-only; other hosts have no translation layer to probe.
func translated() bool {
	return false
}
