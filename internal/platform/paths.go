package platform

import (
	"os"
	"path/filepath"
)

// DefaultDataDir is the durable, app-scoped base directory for repositories.
// With devSafety, go run / go test processes get a temporary directory instead.
func DefaultDataDir(devSafety bool) string {
	return defaultDir(os.UserConfigDir, "data", devSafety)
}

// DefaultCacheDir is the base directory for caches. Its content may be
// purged by the operating system.
func DefaultCacheDir(devSafety bool) string {
	return defaultDir(os.UserCacheDir, "cache", devSafety)
}

func defaultDir(userDir func() (string, error), fallback string, devSafety bool) string {
	base, err := userDir()
	if err != nil || base == "" {
		base = filepath.Join(os.TempDir(), AppDir+"-"+fallback)
	} else {
		base = filepath.Join(base, AppDir)
	}

	if devSafety && IsDevRun() {
		// Keep data and caches apart inside the sandbox.
		return filepath.Join(ResolveBaseDir(base, true), fallback)
	}
	return base
}
