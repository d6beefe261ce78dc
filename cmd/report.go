package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rnwolfe/habit/internal/report"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
)

var (
	reportRaw    bool
	reportOutput string
	reportTitle  string
)

var reportCmd = &cobra.Command{
	Use:   "report [YYYY-MM]",
	Short: "Monthly progress report in markdown",
	Long: `Render a markdown report for a month: overall stats, per-habit progress
and monthly completion rates. Rendered in the terminal, raw when piped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print raw markdown instead of rendering it")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the markdown to a file")
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "Report title")
}

func runReport(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	today := s.tracker.Today()
	year, month, err := monthArg(args, today)
	if err != nil {
		return err
	}
	entries, err := s.store.LoadEntries()
	if err != nil {
		return fmt.Errorf("loading habits: %w", err)
	}
	title := reportTitle
	if title == "" && s.cfg.User.Name != "" {
		title = s.cfg.User.Name + "'s habits"
	}
	data := report.Build(title, entries, today, year, month)

	if reportOutput != "" {
		f, err := os.Create(reportOutput)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		if err := report.Render(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		ui.Ok("Report written to " + reportOutput)
		return nil
	}

	return renderReport(os.Stdout, data, reportRaw)
}

func renderReport(out io.Writer, data report.Data, raw bool) error {
	mw := ui.NewMarkdownWriter(out, raw)
	if err := report.Render(mw, data); err != nil {
		return err
	}
	return mw.Flush()
}
