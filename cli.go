package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RezaPourdast/dnsset/internal/autostart"
	"github.com/RezaPourdast/dnsset/internal/config"
	"github.com/RezaPourdast/dnsset/internal/ifaces"
	"github.com/RezaPourdast/dnsset/internal/logging"
	"github.com/RezaPourdast/dnsset/internal/netconf"
	"github.com/RezaPourdast/dnsset/internal/probe"
	"github.com/RezaPourdast/dnsset/internal/provider"
	"github.com/RezaPourdast/dnsset/internal/tui"
)

var (
	flagVerbose bool
	flagNoInput bool
)

func runCLI() {
	rootCmd := &cobra.Command{
		Use:   "dnsset",
		Short: "Set, clear and inspect per-interface DNS servers",
		Long:  "A cross-platform utility for switching the host's DNS servers between provider presets or custom addresses.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(flagVerbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoInput, "no-input", false, "never prompt interactively")

	// List command - enumerate network interfaces
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List network interfaces",
		Run: func(cmd *cobra.Command, args []string) {
			list, err := ifaces.List()
			if err != nil {
				fail(err)
			}
			for _, iface := range list {
				marker := " "
				if iface.Default {
					marker = "*"
				}
				state := "down"
				if iface.Up {
					state = "up"
				}
				fmt.Printf("%s %-20s %-16s %-5s", marker, iface.Name, iface.IPAddress+iface.CIDR, state)
				if iface.Gateway != "" {
					fmt.Printf("  gw %s", iface.Gateway)
				}
				fmt.Println()
			}
			fmt.Println(tui.Muted.Render("* carries the default route"))
		},
	}

	// Set command - apply DNS servers to an interface
	var setIface, setProvider string
	setCmd := &cobra.Command{
		Use:   "set [primary] [secondary]",
		Short: "Set DNS servers for an interface",
		Long: `Set an interface's DNS servers, either from a provider preset or
from explicit addresses:

  dnsset set --provider shekan
  dnsset set 1.1.1.1 1.0.0.1 --interface Ethernet

The previous configuration is snapshotted so "dnsset clear" can
restore it.`,
		Args: cobra.MaximumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Default()
			}

			primary, secondary, err := resolveServers(cfg, setProvider, args)
			if err != nil {
				fail(err)
			}
			servers, err := netconf.ParseServers(primary, secondary)
			if err != nil {
				fail(err)
			}

			iface, err := resolveInterface(cfg, setIface)
			if err != nil {
				fail(err)
			}

			svc, err := netconf.NewService()
			if err != nil {
				fail(err)
			}
			if err := svc.Apply(iface, servers); err != nil {
				fail(err)
			}

			fmt.Println(tui.Success.Render(
				fmt.Sprintf("DNS servers %s set for %q (%s)", servers, iface, svc.Mechanism())))
		},
	}
	setCmd.Flags().StringVarP(&setIface, "interface", "i", "", "interface identifier (default: configured or active interface)")
	setCmd.Flags().StringVarP(&setProvider, "provider", "p", "", "provider preset name (see 'dnsset providers')")

	// Clear command - restore the previous DNS configuration
	var clearIface string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Restore an interface's previous DNS configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Default()
			}

			iface, err := resolveInterface(cfg, clearIface)
			if err != nil {
				fail(err)
			}

			svc, err := netconf.NewService()
			if err != nil {
				fail(err)
			}
			if err := svc.Clear(iface); err != nil {
				fail(err)
			}

			fmt.Println(tui.Success.Render(fmt.Sprintf("DNS configuration restored for %q", iface)))
		},
	}
	clearCmd.Flags().StringVarP(&clearIface, "interface", "i", "", "interface identifier")

	// Status command - show the interface's current DNS servers
	var statusIface string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show an interface's current DNS servers",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Default()
			}

			iface, err := resolveInterface(cfg, statusIface)
			if err != nil {
				fail(err)
			}

			svc, err := netconf.NewService()
			if err != nil {
				fail(err)
			}
			status, err := svc.Status(iface)
			if err != nil {
				fail(err)
			}

			fmt.Printf("Interface:  %s\n", status.Interface)
			fmt.Printf("Mechanism:  %s\n", svc.Mechanism())
			if len(status.Servers) == 0 {
				fmt.Printf("DNS:        %s\n", tui.Error.Render("none"))
				return
			}
			fmt.Printf("DNS:        %s\n", strings.Join(status.Servers, ", "))
			switch status.Source {
			case netconf.SourceStatic:
				fmt.Printf("Source:     %s\n", tui.Success.Render("static"))
			case netconf.SourceDHCP:
				fmt.Printf("Source:     %s\n", tui.Warning.Render("dhcp"))
			default:
				fmt.Printf("Source:     %s\n", tui.Muted.Render("unknown"))
			}
		},
	}
	statusCmd.Flags().StringVarP(&statusIface, "interface", "i", "", "interface identifier")

	// Test command - resolver latency check
	var testServer, testDomain string
	var testCount int
	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Check a DNS server's responsiveness",
		Run: func(cmd *cobra.Command, args []string) {
			server := testServer
			if server == "" {
				var err error
				server, err = currentServer()
				if err != nil {
					fail(err)
				}
			}

			result, err := probe.Run(context.Background(), server, testDomain, testCount)
			if err != nil {
				fail(err)
			}

			fmt.Printf("Testing %s against %s\n", result.Domain, result.Server)
			for i, sample := range result.Samples {
				if sample.Err != nil {
					fmt.Printf("  query %d: %s\n", i+1, tui.Error.Render(sample.Err.Error()))
					continue
				}
				fmt.Printf("  query %d: %v\n", i+1, sample.RTT)
			}

			min, avg, max, ok := result.Stats()
			if !ok {
				fail(fmt.Errorf("all %d queries failed", len(result.Samples)))
			}
			line := fmt.Sprintf("min %v / avg %v / max %v", min, avg, max)
			if failures := result.Failures(); failures > 0 {
				line += fmt.Sprintf(", %d failed", failures)
			}
			fmt.Println(tui.Success.Render(line))
		},
	}
	testCmd.Flags().StringVarP(&testServer, "server", "s", "", "DNS server to test (default: the active interface's first server)")
	testCmd.Flags().StringVarP(&testDomain, "domain", "d", "example.com", "domain to resolve")
	testCmd.Flags().IntVarP(&testCount, "count", "c", 4, "number of queries")

	// Providers command - list presets
	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List DNS provider presets",
		Run: func(cmd *cobra.Command, args []string) {
			providers, err := loadProviders()
			if err != nil {
				fail(err)
			}
			for _, p := range providers {
				origin := "user"
				if p.BuiltIn {
					origin = "built-in"
				}
				secondary := p.Secondary
				if secondary == "" {
					secondary = "-"
				}
				fmt.Printf("%-10s %-16s %-16s %s\n", p.Name, p.Primary, secondary, tui.Muted.Render(origin))
			}
		},
	}

	// Config command group
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	configSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Default()
			}

			key, value := args[0], args[1]
			switch key {
			case "interface":
				cfg.DefaultInterface = value
			case "provider":
				providers, err := loadProviders()
				if err != nil {
					fail(err)
				}
				if _, ok := provider.Lookup(providers, value); !ok {
					fail(fmt.Errorf("unknown provider: %s", value))
				}
				cfg.DefaultProvider = value
			default:
				fail(fmt.Errorf("unknown config key: %s", key))
			}

			if err := config.Save(cfg); err != nil {
				fail(fmt.Errorf("save config: %w", err))
			}
			fmt.Printf("Set %s = %s\n", key, value)
		},
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fail(fmt.Errorf("load config: %w", err))
			}
			fmt.Printf("Interface: %s\n", orUnset(cfg.DefaultInterface))
			fmt.Printf("Provider:  %s\n", orUnset(cfg.DefaultProvider))
			fmt.Printf("Autostart: %v\n", cfg.Autostart)
		},
	}

	// Autostart command group - re-apply the default provider on login
	autostartCmd := &cobra.Command{
		Use:   "autostart",
		Short: "Re-apply the default provider on login",
	}

	autostartEnableCmd := &cobra.Command{
		Use:   "enable",
		Short: "Enable autostart",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Default()
			}
			if cfg.DefaultProvider == "" {
				fail(fmt.Errorf("no default provider configured; run 'dnsset config set provider <name>' first"))
			}
			if err := autostart.Enable(cfg.DefaultProvider); err != nil {
				fail(fmt.Errorf("enable autostart: %w", err))
			}
			cfg.Autostart = true
			config.Save(cfg)
			fmt.Println(tui.Success.Render("Autostart enabled"))
		},
	}

	autostartDisableCmd := &cobra.Command{
		Use:   "disable",
		Short: "Disable autostart",
		Run: func(cmd *cobra.Command, args []string) {
			if err := autostart.Disable(); err != nil {
				fail(fmt.Errorf("disable autostart: %w", err))
			}
			if cfg, err := config.Load(); err == nil {
				cfg.Autostart = false
				config.Save(cfg)
			}
			fmt.Println("Autostart disabled")
		},
	}

	autostartStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show autostart state",
		Run: func(cmd *cobra.Command, args []string) {
			if autostart.IsEnabled() {
				fmt.Println("Autostart: enabled")
			} else {
				fmt.Println("Autostart: disabled")
			}
		},
	}

	// Build command tree
	configCmd.AddCommand(configSetCmd, configShowCmd)
	autostartCmd.AddCommand(autostartEnableCmd, autostartDisableCmd, autostartStatusCmd)
	rootCmd.AddCommand(listCmd, setCmd, clearCmd, statusCmd, testCmd, providersCmd)
	rootCmd.AddCommand(configCmd, autostartCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveServers picks the addresses to apply: explicit args win, then
// a provider preset by flag, then the configured default provider.
func resolveServers(cfg *config.Config, providerName string, args []string) (primary, secondary string, err error) {
	if len(args) > 0 {
		if providerName != "" {
			return "", "", fmt.Errorf("pass either addresses or --provider, not both")
		}
		primary = args[0]
		if len(args) > 1 {
			secondary = args[1]
		}
		return primary, secondary, nil
	}

	if providerName == "" {
		providerName = cfg.DefaultProvider
	}
	if providerName == "" {
		return "", "", fmt.Errorf("no DNS servers given; pass addresses or --provider")
	}

	providers, err := loadProviders()
	if err != nil {
		return "", "", err
	}
	p, ok := provider.Lookup(providers, providerName)
	if !ok {
		return "", "", fmt.Errorf("unknown provider: %s", providerName)
	}
	return p.Primary, p.Secondary, nil
}

// resolveInterface picks the target interface: explicit flag, then the
// configured default, then the active interface, then the interactive
// picker on a terminal.
func resolveInterface(cfg *config.Config, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.DefaultInterface != "" {
		return cfg.DefaultInterface, nil
	}

	if active, err := ifaces.Active(); err == nil {
		return active.Name, nil
	}

	if flagNoInput || !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("%w: pass --interface", netconf.ErrInterfaceNotFound)
	}

	list, err := ifaces.List()
	if err != nil {
		return "", err
	}
	iface, ok, err := tui.PickInterface(list)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("aborted")
	}
	return iface.Name, nil
}

// currentServer returns the first DNS server applied to the resolved
// interface, for "test" without --server.
func currentServer() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	iface, err := resolveInterface(cfg, "")
	if err != nil {
		return "", err
	}

	svc, err := netconf.NewService()
	if err != nil {
		return "", err
	}
	status, err := svc.Status(iface)
	if err != nil {
		return "", err
	}
	if len(status.Servers) == 0 {
		return "", fmt.Errorf("no DNS servers configured on %q; pass --server", iface)
	}
	return status.Servers[0], nil
}

// fail reports an error with a hint for the known kinds and exits
// non-zero.
func fail(err error) {
	fmt.Fprintln(os.Stderr, tui.Error.Render("Error: "+err.Error()))

	switch {
	case errors.Is(err, netconf.ErrPermission):
		fmt.Fprintln(os.Stderr, tui.Muted.Render("Re-run elevated (sudo or an administrator shell)."))
	case errors.Is(err, netconf.ErrInterfaceNotFound):
		fmt.Fprintln(os.Stderr, tui.Muted.Render("Run 'dnsset list' to see available interfaces."))
	}
	os.Exit(1)
}

func loadProviders() ([]provider.Provider, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return provider.Load(dir)
}

func orUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}
