// Package platform maps the running host to the canonical platform,
// architecture and archive-extension triple used to select release assets.
package platform

import (
	"log/slog"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/dojoengine/dojoup/internal/errors"
)

// OS is a supported operating system identifier.
type OS string

const (
	Linux   OS = "linux"
	Darwin  OS = "darwin"
	Windows OS = "windows"
)

// Arch is a supported CPU architecture identifier.
type Arch string

const (
	AMD64 Arch = "amd64"
	ARM64 Arch = "arm64"
)

// Archive extensions by platform.
const (
	ExtTarGz = "tar.gz"
	ExtZip   = "zip"
)

// Info is the canonical platform triple, derived once from host inspection.
type Info struct {
	OS         OS
	Arch       Arch
	ArchiveExt string
}

// Detect inspects the host and returns its Info.
// An unrecognized OS is a hard failure, never a default.
func Detect() (Info, error) {
	return detect(runtime.GOOS, rawArch(), translated())
}

// rawArch returns the kernel's machine identifier (uname -m style, e.g.
// "x86_64" or "aarch64"). Falls back to runtime.GOARCH when the kernel
// probe fails.
func rawArch() string {
	if arch, err := host.KernelArch(); err == nil && arch != "" {
		return arch
	}
	return runtime.GOARCH
}

// detect is the pure mapping from raw host identifiers to Info.
// Separated from Detect so the mapping is testable without host access.
func detect(goos, arch string, translated bool) (Info, error) {
	var info Info

	switch goos {
	case "linux":
		info.OS = Linux
		info.ArchiveExt = ExtTarGz
	case "darwin":
		info.OS = Darwin
		info.ArchiveExt = ExtTarGz
	case "windows":
		info.OS = Windows
		info.ArchiveExt = ExtZip
	default:
		return Info{}, errors.NewUnsupportedPlatform(goos)
	}

	info.Arch = mapArch(arch, translated)

	slog.Debug("platform detected",
		"os", info.OS, "arch", info.Arch, "raw_arch", arch, "translated", translated)
	return info, nil
}

// mapArch normalizes a raw CPU identifier. The mapping is total: any
// unrecognized value defaults to amd64. An x86_64 report under a binary
// translation layer (Rosetta 2) is corrected to arm64.
func mapArch(arch string, translated bool) Arch {
	switch strings.ToLower(arch) {
	case "x86_64", "amd64":
		if translated {
			return ARM64
		}
		return AMD64
	case "arm64", "aarch64":
		return ARM64
	default:
		return AMD64
	}
}
