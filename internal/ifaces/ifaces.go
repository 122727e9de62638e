// Package ifaces enumerates the host's network interfaces.
package ifaces

import (
	"fmt"
	"net"
	"sort"

	"github.com/jackpal/gateway"

	"github.com/RezaPourdast/dnsset/internal/netconf"
)

// Interface describes a network adapter with an IPv4 address.
type Interface struct {
	Name       string // OS identifier, friendly name on Windows
	IPAddress  string
	CIDR       string
	MACAddress string
	Gateway    string
	Up         bool
	Default    bool // carries the default route
}

// List enumerates interfaces with an IPv4 address, loopback excluded.
// The default-route interface sorts first.
func List() ([]Interface, error) {
	sysIfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", netconf.ErrEnumeration, err)
	}

	// Gateway discovery is best-effort; interfaces are still usable
	// without it.
	gatewayIP, err := gateway.DiscoverGateway()
	if err != nil {
		gatewayIP = nil
	}

	var result []Interface
	for _, iface := range sysIfaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() || ipNet.IP.To4() == nil {
				continue
			}

			entry := Interface{
				Name:       iface.Name,
				IPAddress:  ipNet.IP.String(),
				MACAddress: iface.HardwareAddr.String(),
				Up:         iface.Flags&net.FlagUp != 0,
			}
			ones, _ := ipNet.Mask.Size()
			entry.CIDR = fmt.Sprintf("/%d", ones)

			if gatewayIP != nil && ipNet.Contains(gatewayIP) {
				entry.Gateway = gatewayIP.String()
				entry.Default = true
			}

			result = append(result, entry)
			break
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no usable interfaces", netconf.ErrEnumeration)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Default != result[j].Default {
			return result[i].Default
		}
		if result[i].Up != result[j].Up {
			return result[i].Up
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Active returns the interface carrying the default route, falling
// back to the first interface that is up.
func Active() (Interface, error) {
	list, err := List()
	if err != nil {
		return Interface{}, err
	}

	for _, iface := range list {
		if iface.Default && iface.Up {
			return iface, nil
		}
	}
	for _, iface := range list {
		if iface.Up {
			return iface, nil
		}
	}
	return Interface{}, fmt.Errorf("%w: no active interface", netconf.ErrEnumeration)
}
