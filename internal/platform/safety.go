package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// AppDir is the directory created under the user's config/cache directories.
const AppDir = "cellar"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveBaseDir re-roots dir into a namespaced temporary directory when
// forceTemp is set, so development runs never touch the user's real data.
// Paths already inside the system temp directory are returned unchanged.
func ResolveBaseDir(dir string, forceTemp bool) string {
	if !forceTemp {
		if dir == "" {
			return "."
		}
		return dir
	}

	clean := filepath.Clean(dir)
	tempRoot := os.TempDir()

	rel, err := filepath.Rel(tempRoot, clean)
	if err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if dir == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(tempRoot, AppDir+"-dev", name)
}
