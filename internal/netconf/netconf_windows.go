//go:build windows

package netconf

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/sys/windows"
)

type windowsConfigurator struct {
	run runner
}

func newConfigurator() (Configurator, error) {
	return &windowsConfigurator{run: execRunner{}}, nil
}

func (c *windowsConfigurator) Name() string { return "netsh" }

// checkElevated refuses to mutate anything without an elevated token;
// netsh would fail halfway through otherwise.
func (c *windowsConfigurator) checkElevated() error {
	if !windows.GetCurrentProcessToken().IsElevated() {
		return fmt.Errorf("%w: administrator rights required", ErrPermission)
	}
	return nil
}

func (c *windowsConfigurator) checkInterface(iface string) error {
	if _, err := net.InterfaceByName(iface); err != nil {
		return fmt.Errorf("%w: %q", ErrInterfaceNotFound, iface)
	}
	return nil
}

func (c *windowsConfigurator) SetDNS(iface string, servers []string) error {
	if err := c.checkInterface(iface); err != nil {
		return err
	}
	if err := c.checkElevated(); err != nil {
		return err
	}

	out, err := c.run.run("netsh", "interface", "ipv4", "set", "dns",
		fmt.Sprintf("name=%s", iface), "static", servers[0])
	if err != nil {
		return classifyToolError("netsh", out, err)
	}

	for i, server := range servers[1:] {
		out, err := c.run.run("netsh", "interface", "ipv4", "add", "dns",
			fmt.Sprintf("name=%s", iface), server, fmt.Sprintf("index=%d", i+2))
		if err != nil {
			return classifyToolError("netsh", out, err)
		}
	}

	c.run.run("ipconfig", "/flushdns")
	return nil
}

func (c *windowsConfigurator) ClearDNS(iface string) error {
	if err := c.checkInterface(iface); err != nil {
		return err
	}
	if err := c.checkElevated(); err != nil {
		return err
	}

	out, err := c.run.run("netsh", "interface", "ipv4", "set", "dns",
		fmt.Sprintf("name=%s", iface), "source=dhcp")
	if err != nil {
		return classifyToolError("netsh", out, err)
	}

	c.run.run("ipconfig", "/flushdns")
	return nil
}

func (c *windowsConfigurator) CurrentDNS(iface string) ([]string, Source, error) {
	if err := c.checkInterface(iface); err != nil {
		return nil, SourceUnknown, err
	}

	out, err := c.run.run("netsh", "interface", "ip", "show", "dns",
		fmt.Sprintf("name=%s", iface))
	if err != nil {
		return nil, SourceUnknown, classifyToolError("netsh", out, err)
	}

	text := string(out)
	servers := extractIPv4(text)

	source := SourceUnknown
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "statically configured"):
		source = SourceStatic
	case strings.Contains(lower, "dhcp"):
		source = SourceDHCP
	}

	return servers, source, nil
}
