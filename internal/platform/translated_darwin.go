package platform

import (
	"bytes"
	"os/exec"
)

// translated reports whether the process runs under Rosetta 2 translation
// on Apple silicon. The sysctl key does not exist on Intel Macs; any probe
// failure means "not translated".
func translated() bool {
	out, err := exec.Command("sysctl", "-n", "sysctl.proc_translated").Output()
	if err != nil {
		return false
	}
	return bytes.Equal(bytes.TrimSpace(out), []byte("1"))
}
