package main

import (
	"database/sql/driver"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"idx-go/internal/app"
	"idx-go/internal/config"
	"idx-go/internal/seo"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*app.Defaults, *config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return defaults, cfg, nil
}

// newApp reads the config and creates an IdxApp. The caller must defer app.Close().
// command identifies the CLI command being run.
func newApp(command string) (*app.IdxApp, error) {
	_, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewIdxApp(cfg, command)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// display renders a nullable column for the terminal.
func display(v driver.Valuer) string {
	value, _ := v.Value()
	if value == nil {
		return "-"
	}
	return fmt.Sprint(value)
}

var rootCmd = &cobra.Command{
	Use:          "idx",
	Short:        "Maintain SEO indexables for a site",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults.SiteURL, defaults.BaseDir)
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Site URL: %s\n", cfg.SiteURL)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		m := &config.Manager{}
		return m.Write(os.Stdout, cfg)
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.Migrate(cfg); err != nil {
			return err
		}
		fmt.Println("Database is up to date.")
		return nil
	},
}

// taxonomy command
var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect taxonomies",
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered taxonomies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListTaxonomies")
		if err != nil {
			return err
		}
		defer a.Close()

		taxonomies, err := a.ListTaxonomies(cmd.Context())
		if err != nil {
			return err
		}
		if len(taxonomies) == 0 {
			fmt.Println("No taxonomies registered.")
			return nil
		}
		for _, tax := range taxonomies {
			visibility := "private"
			if tax.Public {
				visibility = "public"
			}
			fmt.Printf("%-20s  %-8s  %s\n", tax.Name, visibility, tax.Label)
		}
		return nil
	},
}

var taxonomyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Detect taxonomies that changed visibility",
	RunE: func(cmd *cobra.Command, args []string) error {
		flag, _ := cmd.Flags().GetString("request")
		kind, err := app.ResolveRequestKind(flag, app.StdoutIsTerminal())
		if err != nil {
			return err
		}

		a, err := newApp("CheckTaxonomies")
		if err != nil {
			return err
		}
		defer a.Close()

		change, err := a.CheckTaxonomies(cmd.Context(), kind)
		if err != nil {
			return fmt.Errorf("checking taxonomies: %w", err)
		}

		switch {
		case change == nil:
			fmt.Printf("Skipped: %s requests do not check taxonomies.\n", kind)
		case change.Baseline:
			fmt.Println("Recorded the current public taxonomies.")
		case !change.Changed():
			fmt.Println("No taxonomy changed visibility.")
		default:
			if len(change.Added) > 0 {
				fmt.Printf("Made public:  %s\n", strings.Join(change.Added, ", "))
			}
			if len(change.Removed) > 0 {
				fmt.Printf("Made private: %s\n", strings.Join(change.Removed, ", "))
			}
		}
		return nil
	},
}

// author command
var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Manage author indexables",
}

var authorBuildCmd = &cobra.Command{
	Use:   "build USER_ID",
	Short: "Build the indexable of an author archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		save, _ := cmd.Flags().GetBool("save")

		a, err := newApp("BuildAuthor")
		if err != nil {
			return err
		}
		defer a.Close()

		ix, err := a.BuildAuthor(cmd.Context(), userID, save)
		if seo.IsNotEligible(err) {
			fmt.Println(err)
			return nil
		}
		if err != nil {
			return err
		}

		printIndexable(ix)
		if save {
			fmt.Printf("\nSaved indexable #%d\n", ix.ID)
		}
		return nil
	},
}

func printIndexable(ix *seo.Indexable) {
	fmt.Printf("Object:         %s %d\n", ix.ObjectType, ix.ObjectID)
	fmt.Printf("Permalink:      %s\n", display(ix.Permalink))
	fmt.Printf("Title:          %s\n", display(ix.Title))
	fmt.Printf("Description:    %s\n", display(ix.Description))
	fmt.Printf("Noindex:        %s\n", display(ix.IsRobotsNoindex))
	fmt.Printf("Public:         %s\n", display(ix.IsPublic))
	fmt.Printf("Public posts:   %s\n", display(ix.HasPublicPosts))
	fmt.Printf("Image:          %s (%s)\n", display(ix.OpenGraphImage), display(ix.OpenGraphImageSource))
	fmt.Printf("Published:      %s\n", display(ix.ObjectPublishedAt))
	fmt.Printf("Last modified:  %s\n", display(ix.ObjectLastModified))
	fmt.Printf("Version:        %d\n", ix.Version)
}

// cron command
var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Manage scheduled jobs",
}

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListEvents")
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.ListEvents(cmd.Context())
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No jobs scheduled.")
			return nil
		}
		for _, ev := range events {
			fmt.Printf("%s  %s  %s\n", ev.RunAt.Local().Format("2006-01-02 15:04:05"), ev.Hook, ev.ID)
		}
		return nil
	},
}

var cronRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run due jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RunDueJobs")
		if err != nil {
			return err
		}
		defer a.Close()

		ran, err := a.RunDueJobs(cmd.Context())
		if err != nil {
			return fmt.Errorf("running jobs: %w", err)
		}
		fmt.Printf("Ran %d job(s)\n", ran)
		return nil
	},
}

// notification command
var notificationCmd = &cobra.Command{
	Use:   "notification",
	Short: "Manage admin notifications",
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListNotifications")
		if err != nil {
			return err
		}
		defer a.Close()

		notifications, err := a.ListNotifications(cmd.Context())
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		for _, n := range notifications {
			fmt.Printf("[%s] %s\n    %s\n", n.Type, n.ID, n.Message)
		}
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show indexing status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Status")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Status(cmd.Context())
		if err != nil {
			return err
		}

		reason := report.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Printf("Indexing reason:   %s\n", reason)
		fmt.Printf("Unindexed terms:   %d\n", report.UnindexedTerms)
		if report.UnindexedLimited > report.Limit {
			fmt.Printf("More than %d terms need indexing; run a full optimization.\n", report.Limit)
		}
		fmt.Printf("Pending jobs:      %d\n", report.PendingJobs)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	dbCmd.AddCommand(dbMigrateCmd)

	taxonomyCmd.AddCommand(taxonomyListCmd)
	taxonomyCmd.AddCommand(taxonomyCheckCmd)
	taxonomyCheckCmd.Flags().String("request", app.RequestAuto, "Request kind: auto, navigational, ajax, rest or cron")

	authorCmd.AddCommand(authorBuildCmd)
	authorBuildCmd.Flags().Bool("save", false, "Store the built indexable")

	cronCmd.AddCommand(cronListCmd)
	cronCmd.AddCommand(cronRunCmd)

	notificationCmd.AddCommand(notificationListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(taxonomyCmd)
	rootCmd.AddCommand(authorCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(notificationCmd)
	rootCmd.AddCommand(statusCmd)
}
