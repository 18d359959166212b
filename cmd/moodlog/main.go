package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pbaille/moodlog/internal/api"
	"github.com/pbaille/moodlog/internal/diary"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/store"
	"github.com/pbaille/moodlog/internal/theme"
	"github.com/pbaille/moodlog/internal/tui"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	dbPath  string

	version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "moodlog",
		Short:        "Mood diary with emotion analysis and advice",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $XDG_CONFIG_HOME/moodlog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "storage path, overrides storage.path")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(trendCmd())
	rootCmd.AddCommand(themeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// analyzeArgs classifies the joined args, or one typed line when there are none
func analyzeArgs(cmd *cobra.Command, sess *diary.Session, args []string) (diary.Analysis, error) {
	if len(args) == 0 {
		return sess.Record(cmd.Context())
	}
	return sess.Analyze(strings.Join(args, " "))
}

func printAnalysis(cmd *cobra.Command, a diary.Analysis) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", a.Emotion.Emoji(), a.Emotion.Label())
	fmt.Fprintf(out, "💡 %s\n", a.Advice)
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text]",
		Short: "Analyze text and save it to the diary",
		Long:  "Analyze text and save it to the diary. Without arguments one line is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("add")
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.session(cmd.InOrStdin(), cmd.ErrOrStderr())
			analysis, err := analyzeArgs(cmd, sess, args)
			if err != nil {
				return explain(err)
			}
			printAnalysis(cmd, analysis)

			entry, err := sess.Save()
			if err != nil {
				return explain(err)
			}

			n := diary.SavedNotice
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", n.Title, n.Detail, shortID(entry.ID))
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze text without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("analyze")
			if err != nil {
				return err
			}
			defer a.Close()

			analysis, err := analyzeArgs(cmd, a.session(cmd.InOrStdin(), cmd.ErrOrStderr()), args)
			if err != nil {
				return explain(err)
			}
			printAnalysis(cmd, analysis)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("list")
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.store.Recent(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No entries yet. Use 'moodlog add' to create one.")
				return nil
			}

			format := a.cfg.Formatter()
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s %-11s  %s  %s\n",
					shortID(e.ID), e.Emotion.Emoji(), e.Emotion.Label(),
					format.DateTime(e.Timestamp), truncate(e.Text, 60))
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

// findEntry resolves an id prefix, with CLI-friendly errors
func findEntry(st *store.Store, prefix string) (*domain.Entry, error) {
	entry, err := st.Find(prefix)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("entry not found: %s", prefix)
	}
	return entry, err
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show entry details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("show")
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := findEntry(a.store, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", entry.ID)
			fmt.Fprintf(out, "Created: %s\n", a.cfg.Formatter().DateTime(entry.Timestamp))
			fmt.Fprintf(out, "Emotion: %s %s\n", entry.Emotion.Emoji(), entry.Emotion.Label())
			fmt.Fprintf(out, "Text:\n%s\n", entry.Text)
			fmt.Fprintf(out, "\n💡 %s\n", entry.Advice)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("delete")
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := findEntry(a.store, args[0])
			if err != nil {
				return err
			}
			if _, err := a.store.Delete(entry.ID); err != nil {
				return err
			}

			n := diary.DeletedNotice
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", n.Title, n.Detail, shortID(entry.ID))
			return nil
		},
	}
}

func trendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Chart the mood of the most recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("trend")
			if err != nil {
				return err
			}
			defer a.Close()

			points, err := a.trend().Series(a.store)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderChart(points))
			return nil
		},
	}
}

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("theme")
			if err != nil {
				return err
			}
			defer a.Close()

			var mode theme.Mode
			switch {
			case len(args) == 0:
				mode, err = theme.Get(a.blob)
			case args[0] == "toggle":
				mode, err = theme.Toggle(a.blob)
			default:
				mode, err = theme.Parse(args[0])
				if err == nil {
					err = theme.Set(a.blob, mode)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), mode)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("serve")
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			format := a.cfg.Formatter()
			server := api.New(a.store, a.blob, a.trend(), format, addr, api.WithLogger(a.log.With("api")))
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on %s\n", addr)
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default server.addr)")
	return cmd
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive diary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("tui")
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(tui.RunOpts{
				Session: a.session(cmd.InOrStdin(), nil),
				Store:   a.store,
				Prefs:   a.blob,
				Trend:   a.trend(),
				Format:  a.cfg.Formatter(),
				Log:     a.log.With("tui"),
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "moodlog %s\n", version)
		},
	}
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
