// Package main is the entry point for the barline CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
	"github.com/LISSConsulting/LISSTech.Barline/internal/blocks"
	"github.com/LISSConsulting/LISSTech.Barline/internal/config"
	"github.com/LISSConsulting/LISSTech.Barline/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "barline <output>",
		Short: "barline — i3bar/swaybar status line generator",
		Long: "Runs the status line for one output. The output name selects a profile\n" +
			"from barline.toml; unknown outputs use the fallback profile.",
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBar(cfgPath, args[0])
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to barline.toml (default: search the user config directory)")

	root.AddCommand(
		previewCmd(&cfgPath),
		profilesCmd(&cfgPath),
		initCmd(),
		logCmd(&cfgPath),
	)

	return root
}

func previewCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <output>",
		Short: "Show the status line in an interactive terminal preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executePreview(*cfgPath, args[0])
		},
	}
}

func profilesCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured profiles and their blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatProfiles(cfg))
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create barline.toml in the user config directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			path, err := config.InitFile(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}

func logCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the latest diagnostics session log",
		Long: "Prints the newest session log. --incidents lists the failure streaks\n" +
			"of that session; --incident N prints every entry of one recovered streak.",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("lines")
			listIncidents, _ := cmd.Flags().GetBool("incidents")
			incident, _ := cmd.Flags().GetInt("incident")

			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			dir, err := logDir(cfg)
			if err != nil {
				return err
			}
			path, err := store.LatestSession(dir)
			if err != nil {
				return err
			}

			if listIncidents || incident > 0 {
				session, err := store.OpenJSONL(path)
				if err != nil {
					return err
				}
				defer session.Close()
				if incident > 0 {
					entries, err := session.IncidentLog(incident)
					if err != nil {
						return err
					}
					return printLog(cmd.OutOrStdout(), fmt.Sprintf("%s incident #%d", path, incident), entries)
				}
				return printIncidents(cmd.OutOrStdout(), session)
			}

			entries, err := store.Tail(path, n)
			if err != nil {
				return err
			}
			return printLog(cmd.OutOrStdout(), path, entries)
		},
	}
	cmd.Flags().IntP("lines", "n", 50, "number of entries to show (0 = all)")
	cmd.Flags().Bool("incidents", false, "list failure incidents of the session")
	cmd.Flags().Int("incident", 0, "print the entries of one recovered incident")
	return cmd
}

// loadConfig loads and validates barline.toml.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// logDir returns the configured session log directory.
func logDir(cfg *config.Config) (string, error) {
	if cfg.Log.Dir != "" {
		return cfg.Log.Dir, nil
	}
	return config.DefaultLogDir()
}

// formatProfiles renders the profile table printed by `barline profiles`.
func formatProfiles(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("Profiles\n")
	b.WriteString("────────\n")
	for _, name := range cfg.ProfileNames() {
		marker := " "
		if name == cfg.Bar.FallbackProfile {
			marker = "*"
		}
		var kinds []string
		for _, bc := range cfg.Profiles[name].Blocks {
			if bc.Kind == config.KindSeparator {
				continue
			}
			kinds = append(kinds, fmt.Sprintf("%s (%s)", bc.Kind, cadence(blocks.Interval(bc))))
		}
		fmt.Fprintf(&b, "%s %-12s %s\n", marker, name, strings.Join(kinds, ", "))
	}
	if cfg.Source != "" {
		fmt.Fprintf(&b, "\nfrom %s; * marks the fallback profile\n", cfg.Source)
	} else {
		b.WriteString("\nbuilt-in defaults; * marks the fallback profile\n")
	}
	return b.String()
}

func cadence(d time.Duration) string {
	if d == bar.Never {
		return "once"
	}
	return "every " + d.String()
}

// printLog writes session log entries, one per line, without color.
func printLog(w io.Writer, title string, entries []bar.LogEntry) error {
	if _, err := fmt.Fprintf(w, "%s (%d entries)\n", title, len(entries)); err != nil {
		return err
	}
	p := &logPrinter{out: w, verbose: true}
	for _, e := range entries {
		p.print(e)
	}
	return nil
}

// printIncidents writes the session summary and one line per incident.
func printIncidents(w io.Writer, r store.Reader) error {
	sum, err := r.SessionSummary()
	if err != nil {
		return err
	}
	incs, err := r.Incidents()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "session %s: %d entries, %d incidents\n", sum.SessionID, sum.Entries, sum.Incidents); err != nil {
		return err
	}
	for _, inc := range incs {
		status := "still failing"
		if inc.Recovered {
			status = "recovered after " + inc.EndAt.Sub(inc.StartAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "#%-3d %-10s %3d failures  since %s  %s\n     %s\n",
			inc.Number, inc.Block, inc.Failures, inc.StartAt.Format("15:04:05"), status, inc.FirstErr)
	}
	return nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
	return ctx
}
