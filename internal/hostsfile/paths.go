package hostsfile

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultPath returns the operating system's hosts file location.
func DefaultPath() string {
	if runtime.GOOS == "windows" {
		windir := os.Getenv("SystemRoot")
		if windir == "" {
			windir = `C:\Windows`
		}
		return filepath.Join(windir, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}
