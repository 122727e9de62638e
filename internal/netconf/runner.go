package netconf

import (
	"log/slog"
	"os/exec"
	"strings"
)

// runner abstracts process execution so platform adapters can be
// exercised in tests without touching the OS.
type runner interface {
	run(name string, args ...string) ([]byte, error)
	lookPath(name string) (string, error)
}

type execRunner struct{}

func (execRunner) run(name string, args ...string) ([]byte, error) {
	slog.Debug("exec", "cmd", name, "args", strings.Join(args, " "))
	return exec.Command(name, args...).CombinedOutput()
}

func (execRunner) lookPath(name string) (string, error) {
	return exec.LookPath(name)
}
