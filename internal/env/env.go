package env

import (
	"os"
	"path/filepath"
)

// OnPath reports whether dir is already listed in the PATH environment
// variable. Entries are compared after cleaning, so trailing slashes do not
// produce false negatives.
func OnPath(dir string) bool {
	return onPath(os.Getenv("PATH"), dir)
}

func onPath(pathEnv, dir string) bool {
	want := filepath.Clean(dir)
	for _, entry := range filepath.SplitList(pathEnv) {
		if entry == "" {
			continue
		}
		if filepath.Clean(entry) == want {
			return true
		}
	}
	return false
}

// PathHint returns the statement that puts dir on PATH for the user's shell.
func PathHint(dir string) string {
	return NewFormatter(DetectShell()).ExportPath(dir)
}
