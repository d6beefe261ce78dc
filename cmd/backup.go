package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/rnwolfe/habit/internal/backup"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
)

const (
	passphraseEnv = "HABIT_BACKUP_PASSPHRASE"
	lastExportKey = "backup.last_export"
)

var importYes bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Encrypted export and import of all habits",
	Long: `Export every habit and its full history to an age-encrypted file, or
restore from one. The passphrase is read from ` + passphraseEnv + ` or prompted for.`,
	Args: cobra.NoArgs,
	RunE: runBackupStatus,
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write an encrypted backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore habits from an encrypted backup",
	Long: `Restore habits from a backup. Habits in the backup replace habits with the
same id, history included; other habits are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
	backupImportCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runBackupStatus(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	last, ok, err := s.db.GetKV(lastExportKey)
	if err != nil {
		return err
	}
	ui.Header(ui.IconLock + " Backup")
	if ok {
		ui.Kv("Last export", last)
	} else {
		ui.Kv("Last export", ui.Muted.Render("never"))
	}
	ui.Tip("`habit backup export habits.age` to write one.")
	fmt.Println()
	return nil
}

func runBackupExport(_ *cobra.Command, args []string) error {
	path := args[0]

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.store.Records()
	if err != nil {
		return fmt.Errorf("reading habits: %w", err)
	}

	passphrase, err := readPassphrase(true)
	if err != nil {
		return err
	}

	a := backup.NewArchive(records, time.Now())
	if err := backup.WriteFile(path, a, passphrase); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	stamp := fmt.Sprintf("%s → %s", a.ExportedAt.Local().Format(time.RFC3339), path)
	if err := s.db.SetKV(lastExportKey, stamp); err != nil {
		ui.Warn(fmt.Sprintf("could not record export time: %v", err))
	}

	ui.Ok(fmt.Sprintf("Backed up %d habit%s (%d completions) to %s",
		len(a.Habits), plural(len(a.Habits)), a.Completions(), ui.Accent.Render(path)))
	return nil
}

func runBackupImport(_ *cobra.Command, args []string) error {
	return runBackupImportWithReader(bufio.NewReader(os.Stdin), args)
}

func runBackupImportWithReader(reader *bufio.Reader, args []string) error {
	path := args[0]

	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}
	a, err := backup.ReadFile(path, passphrase)
	if err != nil {
		return formatBackupError(err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ui.Inf(fmt.Sprintf("%s holds %d habit%s and %d completions, exported %s",
		path, len(a.Habits), plural(len(a.Habits)), a.Completions(), a.ExportedAt.Local().Format("2006-01-02 15:04")))
	if !importYes && !confirm(reader, "  Replace matching habits with this backup?") {
		ui.Inf("Nothing imported")
		return nil
	}
	if err := s.store.Restore(a.Habits); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	ui.Ok(fmt.Sprintf("Restored %d habit%s", len(a.Habits), plural(len(a.Habits))))
	return nil
}

func formatBackupError(err error) error {
	switch {
	case errors.Is(err, backup.ErrWrongPassphrase):
		return fmt.Errorf("wrong passphrase for this backup")
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("backup file not found: %w", err)
	}
	return err
}

// readPassphrase returns the backup passphrase from the environment or an
// interactive prompt. With confirm set, it is asked for twice.
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("backup passphrase required: set %s or run interactively", passphraseEnv)
	}

	fmt.Fprint(os.Stderr, ui.Muted.Render("  Backup passphrase: "))
	passBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	passphrase := strings.TrimSpace(string(passBytes))
	if passphrase == "" {
		return "", backup.ErrEmptyPassphrase
	}

	if confirm {
		fmt.Fprint(os.Stderr, ui.Muted.Render("  Confirm passphrase: "))
		confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		if strings.TrimSpace(string(confirmBytes)) != passphrase {
			return "", errors.New("passphrases do not match")
		}
	}
	return passphrase, nil
}
