package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantumsync/attune/internal/config"
	"github.com/quantumsync/attune/internal/models"
)

var errPermanent = errors.New("permanent")

func TestParseMode(t *testing.T) {
	cases := []struct {
		raw     string
		want    models.SelectionMode
		wantErr bool
	}{
		{"", models.SelectionModeAll, false},
		{"all", models.SelectionModeAll, false},
		{"ALL", models.SelectionModeAll, false},
		{"only-unbalanced", models.SelectionModeUnbalanced, false},
		{" only-unbalanced ", models.SelectionModeUnbalanced, false},
		{"some", "", true},
	}
	for _, tc := range cases {
		mode, err := parseMode(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseMode(%q): expected error, got %q", tc.raw, mode)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMode(%q): unexpected error: %v", tc.raw, err)
			continue
		}
		if mode != tc.want {
			t.Errorf("parseMode(%q) = %q, want %q", tc.raw, mode, tc.want)
		}
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf,
		[]string{"STAGE", "FREQUENCY"},
		[][]string{
			{"Root", "396 Hz"},
			{"Solar Plexus", "528 Hz"},
		})
	if err != nil {
		t.Fatalf("writeTable returned error: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "STAGE") {
		t.Errorf("expected header line, got: %q", lines[0])
	}
	// Columns must align across rows.
	if strings.Index(lines[1], "396") != strings.Index(lines[2], "528") {
		t.Errorf("expected aligned columns, got:\n%s", out)
	}
}

func TestFormatYesNo(t *testing.T) {
	if formatYesNo(true) != "yes" || formatYesNo(false) != "no" {
		t.Errorf("unexpected yes/no formatting")
	}
}

func TestPreflightErrorMessage(t *testing.T) {
	err := &PreflightError{
		Message:  "TUI requires an interactive terminal",
		Hint:     "Run with a TTY",
		NextStep: "attune --help",
	}
	msg := err.Error()
	if !strings.Contains(msg, "interactive terminal") {
		t.Errorf("expected message in error, got: %q", msg)
	}
	if !strings.Contains(msg, "Try: attune --help") {
		t.Errorf("expected next step in error, got: %q", msg)
	}
}

func TestDiagnoseSetAndShow(t *testing.T) {
	tempDir := t.TempDir()

	originalConfig := appConfig
	appConfig = &config.Config{
		DataDir:  tempDir,
		DBPath:   filepath.Join(tempDir, "attune.db"),
		CacheDir: filepath.Join(tempDir, "cache"),
	}
	defer func() { appConfig = originalConfig }()

	originalSubject := diagnoseSubject
	diagnoseSubject = "Dana"
	defer func() { diagnoseSubject = originalSubject }()

	originalJSON := jsonOutput
	jsonOutput = true
	defer func() { jsonOutput = originalJSON }()

	var setOut bytes.Buffer
	diagnoseSetCmd.SetOut(&setOut)
	diagnoseSetCmd.SetContext(context.Background())
	if err := diagnoseSetCmd.RunE(diagnoseSetCmd, []string{"heart", "blocked"}); err != nil {
		t.Fatalf("diagnose set failed: %v", err)
	}
	if !strings.Contains(setOut.String(), `"stage": "Heart"`) {
		t.Errorf("expected canonical stage name in output, got: %s", setOut.String())
	}

	var showOut bytes.Buffer
	diagnoseShowCmd.SetOut(&showOut)
	diagnoseShowCmd.SetContext(context.Background())
	if err := diagnoseShowCmd.RunE(diagnoseShowCmd, nil); err != nil {
		t.Fatalf("diagnose show failed: %v", err)
	}
	if !strings.Contains(showOut.String(), "blocked") {
		t.Errorf("expected recorded state in output, got: %s", showOut.String())
	}
}

func TestProgressStep(t *testing.T) {
	originalOut := progressOut
	var buf bytes.Buffer
	progressOut = &buf
	defer func() { progressOut = originalOut }()

	t.Run("done reports elapsed time", func(t *testing.T) {
		buf.Reset()
		step := startProgress("Opening database")
		if step == nil {
			t.Fatal("expected an enabled step")
		}
		step.Done()
		out := buf.String()
		if !strings.Contains(out, "Opening database... ") {
			t.Errorf("expected label in output, got: %q", out)
		}
		if !strings.Contains(out, "done (") {
			t.Errorf("expected done marker in output, got: %q", out)
		}
	})

	t.Run("fail reports the error", func(t *testing.T) {
		buf.Reset()
		step := startProgress("Opening database")
		step.Fail(errPermanent)
		if !strings.Contains(buf.String(), "failed: permanent") {
			t.Errorf("expected failure in output, got: %q", buf.String())
		}
	})

	t.Run("suppressed step is nil safe", func(t *testing.T) {
		originalNoProgress := noProgress
		noProgress = true
		defer func() { noProgress = originalNoProgress }()

		buf.Reset()
		step := startProgress("Opening database")
		if step != nil {
			t.Fatal("expected nil step when progress is disabled")
		}
		step.Done()
		step.Fail(nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output, got: %q", buf.String())
		}
	})
}

func TestWriteOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, map[string]int{"stages": 7}); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"stages": 7`) {
		t.Errorf("expected indented JSON, got: %q", buf.String())
	}
}
