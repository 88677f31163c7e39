package oplog

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/styles"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent operations",
		Long: `List recent operations stored locally.

Examples:
  safecore oplog list
  safecore oplog list --limit 50
  safecore oplog list --kind RequestTimeout
  safecore oplog list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("kind", "", "Only show failures of this error kind (e.g. TransportError)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	kind, _ := cmd.Flags().GetString("kind")
	kind = strings.TrimSpace(kind)
	if kind != "" {
		if _, ok := coreerr.ParseKind(kind); !ok {
			return fmt.Errorf("unknown error kind %q", kind)
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := oplog.Open()
	if err != nil {
		return coreerr.FromIO(err)
	}
	defer repo.Close()

	var entries []oplog.Entry
	if kind != "" {
		entries, err = repo.ListByKind(kind, limit)
	} else {
		entries, err = repo.List(limit)
	}
	if err != nil {
		return coreerr.FromIO(err)
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No operations found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tOUTCOME\tKIND\tDURATION\tDETAIL")
	fmt.Fprintln(w, "----\t-------\t-------\t----\t--------\t------")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Command,
			entry.Outcome,
			orDash(entry.ErrorKind),
			formatDuration(entry.DurationMs),
			orDash(entry.Detail),
		)
	}
	w.Flush()

	if failed := countFailed(entries); failed > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), styles.MutedText.Render(fmt.Sprintf("%d of %d failed", failed, len(entries))))
	}
	return nil
}

func countFailed(entries []oplog.Entry) int {
	n := 0
	for _, e := range entries {
		if e.Outcome == oplog.OutcomeError {
			n++
		}
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
