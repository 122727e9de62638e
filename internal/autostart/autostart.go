// Package autostart registers dnsset as a login item that re-applies
// the configured provider.
package autostart

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/emersion/go-autostart"
)

const appName = "dnsset"

// Enable registers a login item running "dnsset set --provider <name>".
func Enable(provider string) error {
	return app(provider).Enable()
}

// Disable removes the login item.
func Disable() error {
	return app("").Disable()
}

// IsEnabled reports whether the login item is registered.
func IsEnabled() bool {
	return app("").IsEnabled()
}

func app(provider string) *autostart.App {
	exec := []string{executablePath(), "set"}
	if provider != "" {
		exec = append(exec, "--provider", provider)
	}
	return &autostart.App{
		Name:        appName,
		DisplayName: "dnsset",
		Exec:        exec,
	}
}

func executablePath() string {
	exe, err := os.Executable()
	if err != nil {
		switch runtime.GOOS {
		case "windows":
			return filepath.Join(os.Getenv("PROGRAMFILES"), "dnsset", "dnsset.exe")
		default:
			return "/usr/local/bin/dnsset"
		}
	}
	return exe
}
