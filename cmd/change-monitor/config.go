package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/change-monitor/pkg/config"
)

// Config command flags.
var (
	configShowFormat string
	configInitForce  bool
	configInitOutput string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file search paths",
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	RunE:  runConfigInit,
}

func init() {
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml", "output format (yaml, json)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file without asking")
	configInitCmd.Flags().StringVar(&configInitOutput, "output", "", "output path (default: ~/.change-monitor/config.yaml)")

	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch configShowFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Println(string(data))
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Println("# Effective configuration")
		fmt.Println("# Source:", configSource())
		fmt.Println()
		fmt.Print(string(data))
	}

	return nil
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	fmt.Println("Configuration file search paths (in order of precedence):")
	fmt.Println()

	for i, p := range configSearchPaths() {
		exists := "not found"
		if _, err := os.Stat(p); err == nil {
			exists = "found"
		}
		fmt.Printf("  %d. %s [%s]\n", i+1, p, exists)
	}

	fmt.Println()
	fmt.Println("Active configuration:", configSource())
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	outputPath := configInitOutput
	if outputPath == "" {
		outputPath = homeConfigPath()
	}

	if _, err := os.Stat(outputPath); err == nil && !configInitForce {
		fmt.Printf("Configuration file already exists at: %s\n", outputPath)
		fmt.Print("Overwrite? [y/N]: ")

		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			fmt.Println("\nCancelled")
			return nil
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := config.Save(config.Default(), outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Wrote default configuration to: %s\n", outputPath)
	return nil
}

// configSearchPaths lists candidate config locations, the explicit
// --config flag first when given.
func configSearchPaths() []string {
	var paths []string
	if flagConfig != "" {
		paths = append(paths, flagConfig)
	}
	return append(paths,
		"./change-monitor.yaml",
		homeConfigPath(),
	)
}

// configSource returns the path of the first existing config file, or a
// note that defaults are in effect.
func configSource() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "defaults (no config file found)"
}

func homeConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(homeDir, ".change-monitor", "config.yaml")
}
