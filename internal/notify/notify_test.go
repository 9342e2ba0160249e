package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/quantumsync/attune/internal/models"
)

func TestSeverities(t *testing.T) {
	stage, _ := models.StageByName("Root")

	cases := []struct {
		name         string
		notification Notification
		severity     Severity
	}{
		{"started", SessionStarted("Maria", stage), SeverityInfo},
		{"stopped", SessionStopped("Maria"), SeverityInfo},
		{"advanced", StageAdvanced(stage, 0, 7), SeverityInfo},
		{"completed", SessionCompleted("Maria"), SeverityInfo},
		{"missing name", MissingSubjectName(), SeverityError},
		{"empty list", EmptyStageList("Maria"), SeverityInfo},
		{"persist warning", PersistWarning(errors.New("boom")), SeverityWarning},
		{"permission", PermissionError(), SeverityError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.notification.Severity != tc.severity {
				t.Errorf("expected severity %q, got %q", tc.severity, tc.notification.Severity)
			}
			if tc.notification.Title == "" || tc.notification.Body == "" {
				t.Error("expected non-empty title and body")
			}
		})
	}
}

func TestSessionStartedMentionsStageAndFrequency(t *testing.T) {
	stage, ok := models.StageByName("Heart")
	if !ok {
		t.Fatal("missing Heart stage")
	}

	n := SessionStarted("Maria", stage)
	if !strings.Contains(n.Body, "Heart") {
		t.Errorf("body should name the stage: %q", n.Body)
	}
	if !strings.Contains(n.Body, "639") {
		t.Errorf("body should include the frequency: %q", n.Body)
	}
}

func TestFuncSink(t *testing.T) {
	var got []Notification
	sink := FuncSink(func(n Notification) { got = append(got, n) })

	sink.Notify(MissingSubjectName())

	if len(got) != 1 || got[0].Severity != SeverityError {
		t.Errorf("unexpected delivery: %+v", got)
	}
}
