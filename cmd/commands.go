package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"nmwifi/config"
	"nmwifi/gonetworkmanager"
)

// Command flags
var (
	scanRescan  bool
	configForce bool
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func init() {
	scanCmd.Flags().BoolVar(&scanRescan, "rescan", false, "Ask NetworkManager for a fresh scan first")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(configCmd)
}

// scanCmd prints visible networks
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List visible Wi-Fi networks",
	Example: `  # Networks NetworkManager already knows about
  nmwifi scan

  # Force a new scan (slower)
  nmwifi scan --rescan`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("rescan") {
		cfg.Policy.RescanOnRefresh = scanRescan
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	networks, err := client.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(networks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No Wi-Fi networks found.")
		return nil
	}
	printNetworks(cmd.OutOrStdout(), networks)
	return nil
}

func printNetworks(w io.Writer, networks []gonetworkmanager.Network) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "SSID", "SECURITY", "SAVED")
	for _, n := range networks {
		inUse, saved, ssid := "", "", n.SSID
		if n.InUse {
			inUse = "*"
		}
		if n.IsSaved {
			saved = "yes"
		}
		if ssid == "" {
			ssid = "<hidden>"
		}
		t.Row(inUse, ssid, n.Security.String(), saved)
	}
	t.StyleFunc(tableStyle)
	fmt.Fprintln(w, t.Render())
}

// savedCmd prints saved Wi-Fi profiles
var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved Wi-Fi profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		saved, err := client.ListSaved(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list saved connections: %w", err)
		}
		if len(saved) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved Wi-Fi profiles.")
			return nil
		}
		printSaved(cmd.OutOrStdout(), saved)
		return nil
	},
}

func printSaved(w io.Writer, saved []gonetworkmanager.SavedConnection) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SSID", "LAST USED")
	for _, s := range saved {
		t.Row(s.SSID, s.LastUsed)
	}
	t.StyleFunc(tableStyle)
	fmt.Fprintln(w, t.Render())
}

func tableStyle(row, _ int) lipgloss.Style {
	if row == 0 {
		return headerStyle
	}
	return cellStyle
}

// resolvedConfigPath is --config, or the default location.
func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		if _, err = os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
