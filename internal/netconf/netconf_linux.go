//go:build linux

package netconf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/vishvananda/netlink"
)

const resolvConf = "/etc/resolv.conf"

// managerType identifies which facility owns DNS configuration on
// this host.
type managerType int

const (
	managerFile managerType = iota
	managerSystemdResolved
	managerNetworkManager
)

func (m managerType) String() string {
	switch m {
	case managerSystemdResolved:
		return "systemd-resolved"
	case managerNetworkManager:
		return "NetworkManager"
	default:
		return "resolv.conf"
	}
}

type linuxConfigurator struct {
	manager   managerType
	run       runner
	checkLink func(iface string) error
}

func newConfigurator() (Configurator, error) {
	c := &linuxConfigurator{run: execRunner{}, checkLink: checkLinkExists}
	c.manager = c.detectManager()
	slog.Debug("detected DNS manager", "manager", c.manager.String())
	return c, nil
}

func (c *linuxConfigurator) Name() string { return c.manager.String() }

// detectManager combines the resolv.conf symlink/comment hints with
// runtime availability checks.
func (c *linuxConfigurator) detectManager() managerType {
	if link, err := os.Readlink(resolvConf); err == nil {
		if strings.Contains(link, "systemd") || strings.Contains(link, "resolved") {
			if c.resolvectlAvailable() {
				return managerSystemdResolved
			}
		}
	}

	if data, err := os.ReadFile(resolvConf); err == nil {
		head := string(data)
		switch {
		case strings.Contains(head, "systemd-resolved") && c.resolvectlAvailable():
			return managerSystemdResolved
		case strings.Contains(head, "NetworkManager") && c.networkManagerAvailable():
			return managerNetworkManager
		}
	}

	if c.networkManagerAvailable() {
		return managerNetworkManager
	}
	return managerFile
}

func (c *linuxConfigurator) resolvectlAvailable() bool {
	_, err := c.run.lookPath("resolvectl")
	return err == nil
}

func (c *linuxConfigurator) networkManagerAvailable() bool {
	if _, err := c.run.lookPath("nmcli"); err != nil {
		return false
	}
	out, err := c.run.run("systemctl", "is-active", "NetworkManager")
	return err == nil && strings.TrimSpace(string(out)) == "active"
}

// checkLinkExists verifies the link exists before anything is mutated.
func checkLinkExists(iface string) error {
	if _, err := netlink.LinkByName(iface); err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: %q", ErrInterfaceNotFound, iface)
		}
		return fmt.Errorf("%w: %v", ErrEnumeration, err)
	}
	return nil
}

func (c *linuxConfigurator) checkInterface(iface string) error {
	return c.checkLink(iface)
}

func (c *linuxConfigurator) SetDNS(iface string, servers []string) error {
	if err := c.checkInterface(iface); err != nil {
		return err
	}

	switch c.manager {
	case managerSystemdResolved:
		args := append([]string{"dns", iface}, servers...)
		if out, err := c.run.run("resolvectl", args...); err != nil {
			return classifyToolError("resolvectl", out, err)
		}
		// Not all resolvectl versions support default-route.
		c.run.run("resolvectl", "default-route", iface, "true")
		return nil

	case managerNetworkManager:
		conn, err := c.connectionForDevice(iface)
		if err != nil {
			return err
		}
		out, err := c.run.run("nmcli", "connection", "modify", conn,
			"ipv4.dns", strings.Join(servers, ","),
			"ipv4.ignore-auto-dns", "yes")
		if err != nil {
			return classifyToolError("nmcli", out, err)
		}
		if out, err := c.run.run("nmcli", "connection", "up", conn); err != nil {
			return classifyToolError("nmcli", out, err)
		}
		return nil

	default:
		return c.writeResolvConf(servers)
	}
}

func (c *linuxConfigurator) ClearDNS(iface string) error {
	if err := c.checkInterface(iface); err != nil {
		return err
	}

	switch c.manager {
	case managerSystemdResolved:
		if out, err := c.run.run("resolvectl", "revert", iface); err != nil {
			return classifyToolError("resolvectl", out, err)
		}
		return nil

	case managerNetworkManager:
		conn, err := c.connectionForDevice(iface)
		if err != nil {
			return err
		}
		out, err := c.run.run("nmcli", "connection", "modify", conn,
			"ipv4.dns", "",
			"ipv4.ignore-auto-dns", "no")
		if err != nil {
			return classifyToolError("nmcli", out, err)
		}
		if out, err := c.run.run("nmcli", "connection", "up", conn); err != nil {
			return classifyToolError("nmcli", out, err)
		}
		return nil

	default:
		// Plain resolv.conf has no automatic source to revert to.
		slog.Warn("resolv.conf is unmanaged, leaving it untouched")
		return nil
	}
}

func (c *linuxConfigurator) CurrentDNS(iface string) ([]string, Source, error) {
	if err := c.checkInterface(iface); err != nil {
		return nil, SourceUnknown, err
	}

	if c.manager == managerNetworkManager {
		conn, err := c.connectionForDevice(iface)
		if err != nil {
			return nil, SourceUnknown, err
		}

		out, err := c.run.run("nmcli", "-t", "-f", "ipv4.dns", "connection", "show", conn)
		if err != nil {
			return nil, SourceUnknown, classifyToolError("nmcli", out, err)
		}
		if value := parseNmcliValue(string(out), "ipv4.dns"); value != "" {
			return strings.Split(value, ","), SourceStatic, nil
		}

		servers, err := c.readResolvConf()
		if err != nil {
			return nil, SourceUnknown, err
		}
		return servers, SourceDHCP, nil
	}

	if c.manager == managerSystemdResolved {
		// resolv.conf only holds the 127.0.0.53 stub here; ask
		// resolved for the per-link servers.
		out, err := c.run.run("resolvectl", "dns", iface)
		if err != nil {
			return nil, SourceUnknown, classifyToolError("resolvectl", out, err)
		}
		return parseResolvectlDNS(string(out)), SourceUnknown, nil
	}

	servers, err := c.readResolvConf()
	if err != nil {
		return nil, SourceUnknown, err
	}
	return servers, SourceUnknown, nil
}

// parseResolvectlDNS extracts the server list from "resolvectl dns
// <link>" output, e.g. "Link 2 (enp1s0): 1.1.1.1 fd00::1".
func parseResolvectlDNS(output string) []string {
	var servers []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		servers = append(servers, strings.Fields(parts[1])...)
	}
	return servers
}

// connectionForDevice resolves the active NetworkManager connection
// name for a device.
func (c *linuxConfigurator) connectionForDevice(iface string) (string, error) {
	out, err := c.run.run("nmcli", "-t", "-f", "NAME,DEVICE", "connection", "show", "--active")
	if err != nil {
		return "", classifyToolError("nmcli", out, err)
	}

	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		// NAME may itself contain escaped colons; DEVICE is last.
		idx := strings.LastIndex(line, ":")
		if idx < 0 {
			continue
		}
		if line[idx+1:] == iface {
			return strings.ReplaceAll(line[:idx], `\:`, ":"), nil
		}
	}
	return "", fmt.Errorf("%w: no active connection on %q", ErrInterfaceNotFound, iface)
}

func (c *linuxConfigurator) writeResolvConf(servers []string) error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("%w: writing %s requires root", ErrPermission, resolvConf)
	}

	var b strings.Builder
	b.WriteString("# Generated by dnsset\n")
	for _, server := range servers {
		fmt.Fprintf(&b, "nameserver %s\n", server)
	}

	if err := os.WriteFile(resolvConf, []byte(b.String()), 0644); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %v", ErrPermission, err)
		}
		return fmt.Errorf("write %s: %w", resolvConf, err)
	}
	return nil
}

func (c *linuxConfigurator) readResolvConf() ([]string, error) {
	data, err := os.ReadFile(resolvConf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}
	return parseNameservers(string(data)), nil
}
