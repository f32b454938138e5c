package install

import "runtime"

// Binaries is the fixed, ordered set of toolchain binaries every install
// path must produce in the bin directory.
var Binaries = []string{"katana", "sozo", "torii", "dojo-language-server"}

// VersionProbe is the binary whose --version output reports the companion
// scarb version the toolchain was built against.
const VersionProbe = "sozo"

// BinaryFileName returns the on-disk file name for a binary on this host.
func BinaryFileName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
