// Nmwifi is a terminal Wi-Fi manager for NetworkManager.
//
// Running without arguments opens the interactive network list. The scan
// and saved subcommands print the same data for scripts.
//
// Usage:
//
//	nmwifi [command] [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nmwifi/config"
	"nmwifi/gonetworkmanager"
	"nmwifi/logging"
	"nmwifi/netlist"
	"nmwifi/tui"
	"nmwifi/version"
)

// Persistent flags
var (
	configPath string
	logLevel   string
	nmcliCmd   string
)

func main() {
	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Application crashed: %v\n", r)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nmwifi",
	Short: "Manage Wi-Fi connections through NetworkManager",
	Long: `A terminal user interface for NetworkManager Wi-Fi.

Lists nearby networks, connects to open, secured and hidden networks,
disconnects, and manages saved Wi-Fi profiles. All work is done by nmcli.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/nmwifi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default off, or $"+logging.LogLevelEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&nmcliCmd, "nmcli", "", "nmcli command line, e.g. \"sudo -n nmcli\"")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nmwifi %s\n", version.Full())
	},
}

// loadConfig reads the configuration, applies flag overrides and starts
// logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("nmcli") {
		cfg.Nmcli.Command = nmcliCmd
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logging.Initialize(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create log file: %v\n", err)
	}
	logging.Info("starting", zap.String("version", version.Version), zap.String("command", cmd.Name()))
	return cfg, nil
}

// newClient builds the nmcli client and checks that the binary exists.
func newClient(cfg *config.Config) (*gonetworkmanager.Client, error) {
	client, err := gonetworkmanager.NewClient(gonetworkmanager.Options{
		Command: cfg.Nmcli.Command,
		Timeout: cfg.Nmcli.Timeout,
		Rescan:  cfg.Policy.RescanOnRefresh,
	})
	if err != nil {
		return nil, err
	}
	if err := client.CheckAvailable(); err != nil {
		if errors.Is(err, gonetworkmanager.ErrNmcliNotFound) {
			return nil, fmt.Errorf("%w\nThis application requires NetworkManager to function", err)
		}
		return nil, err
	}
	return client, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	// Cancelled on exit so nmcli calls still running are killed.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := tui.New(ctx, &netlist.List{}, client, tui.Options{
		MinPasswordLength: cfg.Policy.MinPasswordLength,
		MaskPassword:      cfg.UI.MaskPassword,
	})

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
