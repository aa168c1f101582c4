package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/store"
)

// Profile command flags.
var (
	profileStore        string
	profileSavePreset   string
	profileSaveDebounce uint64
	profileSaveVerbose  bool
	profileSaveDesc     string
	profileShowFormat   string
	profileDeleteYes    bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named watch profiles",
	Long: `Profiles store a complete watch policy in the local database so a
tuned setup can be recalled by name with 'watch --profile'.`,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save a watch profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSave,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a profile's watch policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

func init() {
	profileCmd.PersistentFlags().StringVar(&profileStore, "store", "", "path to the profile database")
	profileSaveCmd.Flags().StringVar(&profileSavePreset, "preset", "", "base the profile on a preset")
	profileSaveCmd.Flags().Uint64Var(&profileSaveDebounce, "debounce", 0, "debounce window in milliseconds")
	profileSaveCmd.Flags().BoolVar(&profileSaveVerbose, "verbose", false, "verbose watch logging")
	profileSaveCmd.Flags().StringVar(&profileSaveDesc, "description", "", "profile description")
	profileShowCmd.Flags().StringVar(&profileShowFormat, "format", "yaml", "output format (yaml, json)")
	profileDeleteCmd.Flags().BoolVar(&profileDeleteYes, "yes", false, "skip confirmation prompt")

	profileCmd.AddCommand(profileSaveCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

// profileConfig loads the configuration and applies the --store
// override.
func profileConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if profileStore != "" {
		cfg.Store.Path = profileStore
	}
	return cfg, nil
}

func runProfileSave(_ *cobra.Command, args []string) error {
	cfg, err := profileConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	wc, err := resolveWatchConfig(cfg, nil, profileSavePreset, profileSaveDebounce, profileSaveVerbose)
	if err != nil {
		return err
	}

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	profile := &store.Profile{
		Name:        args[0],
		Description: profileSaveDesc,
		Watch:       *wc,
	}

	if err := st.Save(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("Saved profile '%s' (%d targets, %dms debounce)\n",
		profile.Name, len(wc.Targets), wc.DebounceMs)
	return nil
}

func runProfileList(_ *cobra.Command, _ []string) error {
	cfg, err := profileConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	profiles, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles saved. Use 'change-monitor profile save' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTARGETS\tDEBOUNCE\tDESCRIPTION\tUPDATED")
	fmt.Fprintln(w, "----\t-------\t--------\t-----------\t-------")

	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%d\t%dms\t%s\t%s\n",
			p.Name,
			len(p.Watch.Targets),
			p.Watch.DebounceMs,
			p.Description,
			p.UpdatedAt.Format("2006-01-02 15:04"))
	}

	return w.Flush()
}

func runProfileShow(_ *cobra.Command, args []string) error {
	cfg, err := profileConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	profile, err := st.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to load profile %s: %w", args[0], err)
	}

	switch profileShowFormat {
	case "json":
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		fmt.Println(string(data))
	default:
		data, err := yaml.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		fmt.Print(string(data))
	}

	return nil
}

func runProfileDelete(_ *cobra.Command, args []string) error {
	cfg, err := profileConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	name := args[0]
	profile, err := st.Get(name)
	if err != nil {
		return fmt.Errorf("failed to load profile %s: %w", name, err)
	}

	if !profileDeleteYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Printf("Delete profile '%s'? [y/N]: ", profile.Name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := st.Delete(name); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	fmt.Printf("Deleted profile '%s'\n", name)
	return nil
}
