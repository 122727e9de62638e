// Package netconf mutates the host's per-interface DNS configuration.
//
// The platform-specific work (netsh, networksetup, resolvectl, nmcli,
// resolv.conf) sits behind the Configurator interface with one concrete
// implementation per GOOS, selected at build time. The Service front
// door validates input, keeps a pre-modification snapshot, and maps
// platform failures onto the error kinds callers branch on.
package netconf

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// Error kinds surfaced to the CLI. None of these are transient, so
// callers report and exit rather than retry.
var (
	// ErrValidation means an address did not parse. Raised before any
	// OS interaction.
	ErrValidation = errors.New("invalid DNS server address")

	// ErrPermission means the process lacks the rights to change
	// network settings.
	ErrPermission = errors.New("insufficient privileges")

	// ErrInterfaceNotFound means the identifier does not resolve to a
	// live adapter.
	ErrInterfaceNotFound = errors.New("network interface not found")

	// ErrEnumeration means querying the OS network configuration
	// failed.
	ErrEnumeration = errors.New("failed to query network configuration")
)

// Source classifies where an interface's current DNS servers came from.
type Source int

const (
	SourceUnknown Source = iota
	SourceStatic
	SourceDHCP
)

func (s Source) String() string {
	switch s {
	case SourceStatic:
		return "static"
	case SourceDHCP:
		return "dhcp"
	default:
		return "unknown"
	}
}

// Servers is a validated primary/secondary DNS server pair. Secondary
// is the zero Addr when absent.
type Servers struct {
	Primary   netip.Addr
	Secondary netip.Addr
}

// ParseServers validates the given addresses. It is the only way a
// Servers value is constructed, so platform adapters never see an
// unparsed string.
func ParseServers(primary, secondary string) (Servers, error) {
	var s Servers

	p, err := netip.ParseAddr(strings.TrimSpace(primary))
	if err != nil {
		return s, fmt.Errorf("%w: %q", ErrValidation, primary)
	}
	s.Primary = p

	if secondary = strings.TrimSpace(secondary); secondary != "" {
		sec, err := netip.ParseAddr(secondary)
		if err != nil {
			return s, fmt.Errorf("%w: %q", ErrValidation, secondary)
		}
		s.Secondary = sec
	}

	return s, nil
}

// List returns the servers as strings, primary first.
func (s Servers) List() []string {
	list := []string{s.Primary.String()}
	if s.Secondary.IsValid() {
		list = append(list, s.Secondary.String())
	}
	return list
}

func (s Servers) String() string {
	return strings.Join(s.List(), ", ")
}

// Configurator is the narrow capability interface implemented once per
// platform.
type Configurator interface {
	// SetDNS replaces the interface's DNS servers.
	SetDNS(iface string, servers []string) error

	// ClearDNS reverts the interface to automatically provided DNS.
	ClearDNS(iface string) error

	// CurrentDNS returns the interface's configured DNS servers and,
	// where the platform reports it, their source.
	CurrentDNS(iface string) ([]string, Source, error)

	// Name identifies the mechanism in use, e.g. "netsh" or
	// "systemd-resolved".
	Name() string
}

// Status describes an interface's DNS configuration as read back from
// the OS.
type Status struct {
	Interface string
	Servers   []string
	Source    Source
}

// Service wires a platform Configurator to the snapshot store and
// performs the apply/clear/status operations the CLI exposes.
type Service struct {
	conf  Configurator
	snaps *SnapshotStore
}

// NewService builds a Service for the host platform.
func NewService() (*Service, error) {
	conf, err := newConfigurator()
	if err != nil {
		return nil, err
	}
	return &Service{conf: conf, snaps: NewSnapshotStore(DefaultSnapshotPath())}, nil
}

func newServiceWith(conf Configurator, snaps *SnapshotStore) *Service {
	return &Service{conf: conf, snaps: snaps}
}

// Mechanism returns the name of the platform mechanism in use.
func (s *Service) Mechanism() string {
	return s.conf.Name()
}

// Apply sets the interface's DNS servers, recording the previous
// configuration first so Clear can restore it. Repeated applies keep
// the oldest snapshot.
func (s *Service) Apply(iface string, servers Servers) error {
	if iface == "" {
		return fmt.Errorf("%w: no interface given", ErrInterfaceNotFound)
	}

	if !s.snaps.Has(iface) {
		current, source, err := s.conf.CurrentDNS(iface)
		if err == nil {
			if err := s.snaps.Save(iface, current, source); err != nil {
				return fmt.Errorf("save DNS snapshot: %w", err)
			}
		}
	}

	return s.conf.SetDNS(iface, servers.List())
}

// Clear restores the interface's pre-Apply DNS servers when a snapshot
// exists, otherwise reverts it to automatic configuration.
func (s *Service) Clear(iface string) error {
	if iface == "" {
		return fmt.Errorf("%w: no interface given", ErrInterfaceNotFound)
	}

	snap, err := s.snaps.Load(iface)
	if err != nil {
		return fmt.Errorf("load DNS snapshot: %w", err)
	}

	// DHCP-sourced snapshots go back to automatic configuration; any
	// other recorded servers are reinstated as they were.
	if snap != nil && snap.Source != SourceDHCP && len(snap.Servers) > 0 {
		if err := s.conf.SetDNS(iface, snap.Servers); err != nil {
			return err
		}
		return s.snaps.Clear(iface)
	}

	if err := s.conf.ClearDNS(iface); err != nil {
		return err
	}
	return s.snaps.Clear(iface)
}

// Status reads back the interface's current DNS configuration.
func (s *Service) Status(iface string) (Status, error) {
	if iface == "" {
		return Status{}, fmt.Errorf("%w: no interface given", ErrInterfaceNotFound)
	}

	servers, source, err := s.conf.CurrentDNS(iface)
	if err != nil {
		return Status{}, err
	}
	return Status{Interface: iface, Servers: servers, Source: source}, nil
}
