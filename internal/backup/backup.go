// Package backup writes and reads age-encrypted habit archives.
//
// An archive is the JSON document {version, exported_at, habits} encrypted
// with an age scrypt passphrase and ASCII armored, so it can be mailed or
// pasted as text. Files are written atomically with 0600 permissions.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/rnwolfe/habit/internal/habit"
)

// FormatVersion is the archive layout written by this package.
const FormatVersion = 1

var (
	// ErrWrongPassphrase is returned when the archive cannot be decrypted
	// with the given passphrase.
	ErrWrongPassphrase = errors.New("wrong passphrase")
	// ErrCorrupt is returned when the archive is not a readable backup.
	ErrCorrupt = errors.New("backup is corrupted or unreadable")
	// ErrEmptyPassphrase is returned for a blank passphrase.
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")
)

// scrypt work factor (log2 N). Tests lower it.
var workFactor = 18

// Archive is the plaintext content of a backup.
type Archive struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Habits     []habit.Record `json:"habits"`
}

// NewArchive wraps records in an archive stamped with now.
func NewArchive(records []habit.Record, now time.Time) Archive {
	if records == nil {
		records = []habit.Record{}
	}
	return Archive{Version: FormatVersion, ExportedAt: now.UTC().Truncate(time.Second), Habits: records}
}

// Completions returns the number of completion days across all habits.
func (a Archive) Completions() int {
	n := 0
	for _, r := range a.Habits {
		n += len(r.CompletedDates)
	}
	return n
}

// validate re-runs habit validation on every record so a hand-edited or
// foreign archive cannot put invalid habits into the store.
func (a *Archive) validate() error {
	if a.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, a.Version)
	}
	seen := make(map[string]bool, len(a.Habits))
	for i, r := range a.Habits {
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate habit id %q", ErrCorrupt, r.ID)
		}
		seen[r.ID] = true
		h, err := habit.New(r.ID, habit.Input{
			Name:        r.Name,
			Description: r.Description,
			Icon:        string(r.Icon),
			Color:       string(r.Color),
			TargetDays:  r.TargetDays,
		}, r.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: habit %d: %v", ErrCorrupt, i, err)
		}
		a.Habits[i].Habit = h
	}
	return nil
}

// Encrypt writes a as an armored age file to w.
func Encrypt(w io.Writer, a Archive, passphrase string) error {
	if strings.TrimSpace(passphrase) == "" {
		return ErrEmptyPassphrase
	}
	plain, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("serializing backup: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating age recipient: %w", err)
	}
	recipient.SetWorkFactor(workFactor)

	aw := armor.NewWriter(w)
	ew, err := age.Encrypt(aw, recipient)
	if err != nil {
		return fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := ew.Write(plain); err != nil {
		return fmt.Errorf("encrypting backup: %w", err)
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}
	return nil
}

// Decrypt reads and validates an archive from r.
func Decrypt(r io.Reader, passphrase string) (Archive, error) {
	if strings.TrimSpace(passphrase) == "" {
		return Archive{}, ErrEmptyPassphrase
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return Archive{}, fmt.Errorf("creating age identity: %w", err)
	}

	dr, err := age.Decrypt(armor.NewReader(r), identity)
	if err != nil {
		// age has no typed error for a bad passphrase; match its wording.
		msg := err.Error()
		if strings.Contains(msg, "no identity matched") || strings.Contains(msg, "incorrect") {
			return Archive{}, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		return Archive{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	plain, err := io.ReadAll(dr)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: reading decrypted data: %v", ErrCorrupt, err)
	}

	var a Archive
	if err := json.Unmarshal(plain, &a); err != nil {
		return Archive{}, fmt.Errorf("%w: parsing backup JSON: %v", ErrCorrupt, err)
	}
	if err := a.validate(); err != nil {
		return Archive{}, err
	}
	return a, nil
}

// WriteFile encrypts a to path, replacing any existing file atomically.
func WriteFile(path string, a Archive, passphrase string) error {
	var buf bytes.Buffer
	if err := Encrypt(&buf, a, passphrase); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating backup directory: %w", err)
		}
	}
	return atomicWrite(path, buf.Bytes())
}

// ReadFile decrypts the archive stored at path.
func ReadFile(path, passphrase string) (Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return Archive{}, err
	}
	defer f.Close()
	return Decrypt(f, passphrase)
}

// atomicWrite writes data to a temp file next to path, fsyncs it and renames
// it into place.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".habit-backup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(name)
		}
	}()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting backup permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing backup: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("committing backup: %w", err)
	}
	committed = true
	return nil
}
