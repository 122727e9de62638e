//go:build darwin

package netconf

import (
	"fmt"
	"strings"
)

// On macOS DNS is configured per network service ("Wi-Fi"), so the
// interface identifier is matched against networksetup's service list.
type darwinConfigurator struct {
	run runner
}

func newConfigurator() (Configurator, error) {
	return &darwinConfigurator{run: execRunner{}}, nil
}

func (c *darwinConfigurator) Name() string { return "networksetup" }

func (c *darwinConfigurator) resolveService(iface string) (string, error) {
	out, err := c.run.run("networksetup", "-listallnetworkservices")
	if err != nil {
		return "", classifyToolError("networksetup", out, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		// Disabled services are prefixed with *.
		if line == "" || strings.HasPrefix(line, "*") || strings.Contains(line, "denotes") {
			continue
		}
		if strings.EqualFold(line, iface) {
			return line, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInterfaceNotFound, iface)
}

func (c *darwinConfigurator) SetDNS(iface string, servers []string) error {
	service, err := c.resolveService(iface)
	if err != nil {
		return err
	}

	args := append([]string{"-setdnsservers", service}, servers...)
	if out, err := c.run.run("networksetup", args...); err != nil {
		return classifyToolError("networksetup", out, err)
	}

	c.flushCache()
	return nil
}

func (c *darwinConfigurator) ClearDNS(iface string) error {
	service, err := c.resolveService(iface)
	if err != nil {
		return err
	}

	// "empty" reverts the service to DHCP-provided DNS.
	if out, err := c.run.run("networksetup", "-setdnsservers", service, "empty"); err != nil {
		return classifyToolError("networksetup", out, err)
	}

	c.flushCache()
	return nil
}

func (c *darwinConfigurator) CurrentDNS(iface string) ([]string, Source, error) {
	service, err := c.resolveService(iface)
	if err != nil {
		return nil, SourceUnknown, err
	}

	out, err := c.run.run("networksetup", "-getdnsservers", service)
	if err != nil {
		return nil, SourceUnknown, classifyToolError("networksetup", out, err)
	}

	text := strings.TrimSpace(string(out))
	if strings.Contains(text, "There aren't any DNS Servers") {
		return nil, SourceDHCP, nil
	}

	var servers []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			servers = append(servers, line)
		}
	}
	return servers, SourceStatic, nil
}

func (c *darwinConfigurator) flushCache() {
	c.run.run("dscacheutil", "-flushcache")
	c.run.run("killall", "-HUP", "mDNSResponder")
}
