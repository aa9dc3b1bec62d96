package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ArowuTest/draws-backend/internal/config"
	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/services"
	"github.com/ArowuTest/draws-backend/internal/storage"
	"github.com/ArowuTest/draws-backend/internal/utils"
)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "drawctl",
		Short: "Maintenance commands for the draws backend",
		Long: `drawctl runs maintenance tasks against the configured storage.
It reads the same config.yaml, .env file and environment as the API server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = loaded
			config.NewLogger(cfg, cmd.ErrOrStderr())
			return nil
		},
	}
	registerCommands(root)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func registerCommands(root *cobra.Command) {
	root.AddCommand(purgeCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importParticipantsCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(hashPasswordCmd())
}

// withDrawService opens the storage, runs fn and closes the storage again
func withDrawService(ctx context.Context, fn func(services.DrawService) error) error {
	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close(context.Background())
	return fn(services.NewDrawService(repos.Draws, repos.Results))
}

func purgeCmd() *cobra.Command {
	var days int
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete draws that have not been used for a number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days == 0 {
				days = cfg.Draws.PurgeDays
			}
			if days < 1 {
				return errors.New("--days must be positive")
			}
			return withDrawService(cmd.Context(), func(svc services.DrawService) error {
				purged, err := svc.PurgeDraws(cmd.Context(), time.Duration(days)*24*time.Hour, dryRun)
				if err != nil {
					return err
				}
				renderPurge(cmd.OutOrStdout(), purged, dryRun)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "minimum days since last usage (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the draws without deleting them")
	return cmd
}

func renderPurge(w io.Writer, purged []*models.Draw, dryRun bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Kind", "Title", "Created"})
	for _, d := range purged {
		tw.AppendRow(table.Row{d.ID, d.Kind, d.Title, d.CreatedAt.Format(time.RFC3339)})
	}
	action := "purged"
	if dryRun {
		action = "would be purged"
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d draws %s", len(purged), action)})
	tw.Render()
}

func exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <draw-id>",
		Short: "Write a draw and its results as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDrawService(cmd.Context(), func(svc services.DrawService) error {
				export, err := svc.ExportDraw(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return writeExportYAML(w, export)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}

// writeExportYAML writes export as YAML using its JSON field names, so result
// values keep the shape the API returns
func writeExportYAML(w io.Writer, export *models.DrawExport) error {
	raw, err := json.Marshal(export)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func importParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-participants <private-id> <csv-file>",
		Short: "Add the participants listed in a CSV file to a draw",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := utils.ReadParticipantsCSVFile(args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, msg := range report.Errors {
				fmt.Fprintln(out, "skipped:", msg)
			}
			if len(report.Participants) == 0 {
				return errors.New("no participants found in the file")
			}
			return withDrawService(cmd.Context(), func(svc services.DrawService) error {
				draw, err := svc.AddParticipants(cmd.Context(), args[0], report.Participants)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "read %d rows, draw %s now has %d participants\n", report.TotalRows, draw.ID, len(draw.Participants))
				return nil
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print an admin token signed with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.GenerateJWT(utils.RoleAdmin, utils.RoleAdmin, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to configure as Admin.PasswordHash",
		Long:  "Prints the bcrypt hash of the password argument, or of the first line of stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := services.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
