package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// configTestEnv points every XDG directory at a temp dir.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
}

// habitTestEnv is configTestEnv with today pinned and flag globals reset.
func habitTestEnv(t *testing.T, today string) {
	t.Helper()
	configTestEnv(t)
	t.Setenv(todayEnv, today)
	resetFlags(t)
}

// resetFlags zeroes package-level flag variables and restores them after
// the test.
func resetFlags(t *testing.T) {
	t.Helper()
	strs := []*string{&todayFlag, &habitDesc, &habitIcon, &habitColor, &habitName, &reportOutput, &reportTitle}
	bools := []*bool{&listJSON, &showJSON, &rmYes, &statsJSON, &monthJSON, &reportRaw, &importYes, &versionShort, &versionJSON}
	days := []*dayValue{&toggleDay, &doneDay, &undoDay}

	savedStrs := make([]string, len(strs))
	for i, p := range strs {
		savedStrs[i], *p = *p, ""
	}
	savedBools := make([]bool, len(bools))
	for i, p := range bools {
		savedBools[i], *p = *p, false
	}
	savedDays := make([]dayValue, len(days))
	for i, p := range days {
		savedDays[i], *p = *p, dayValue{}
	}
	savedTarget := habitTarget
	habitTarget = 0

	t.Cleanup(func() {
		for i, p := range strs {
			*p = savedStrs[i]
		}
		for i, p := range bools {
			*p = savedBools[i]
		}
		for i, p := range days {
			*p = savedDays[i]
		}
		habitTarget = savedTarget
	})
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	fn()

	w.Close()
	return string(<-done)
}

// mustRun fails the test if err is non-nil.
func mustRun(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
