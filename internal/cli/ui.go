package cli

import (
	"fmt"
	"os"

	"github.com/quantumsync/attune/internal/cache"
	"github.com/quantumsync/attune/internal/db"
	"github.com/quantumsync/attune/internal/models"
	"github.com/quantumsync/attune/internal/notify"
	"github.com/quantumsync/attune/internal/sequencer"
	"github.com/quantumsync/attune/internal/session"
	"github.com/quantumsync/attune/internal/tui"
	"github.com/spf13/cobra"
)

var (
	uiSubject string
	uiTheme   string
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the Attune TUI",
	Long:  "Launch the Attune terminal user interface (TUI).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func runTUI(cmd *cobra.Command) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "TUI requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use CLI subcommands",
			NextStep: "attune --help",
		}
	}

	subject := uiSubject
	if subject == "" {
		subject = promptSubjectName()
	}

	database, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	cacheStore := cache.NewStore(appConfig.CacheDir)
	holder := session.NewHolder(cacheStore, db.NewSessionRepository(database), appConfig.TherapistID)

	diagRepo := db.NewDiagnosticRepository(database)

	seqConfig := sequencer.DefaultConfig()
	if appConfig.TickInterval > 0 {
		seqConfig.TickInterval = appConfig.TickInterval
	}
	orchestrator := sequencer.New(
		seqConfig,
		holder,
		diagRepo,
		db.NewEventRepository(database),
		notify.NewLogSink(),
	)

	mode, err := parseMode(appConfig.DefaultMode)
	if err != nil {
		mode = models.SelectionModeAll
	}

	var diagnostics []models.Diagnostic
	if subject != "" {
		if listed, err := diagRepo.ListBySubject(cmd.Context(), subject); err == nil {
			diagnostics = listed
		}
	}

	return tui.Run(tui.Config{
		Orchestrator:    orchestrator,
		SubjectName:     subject,
		DurationMinutes: appConfig.DefaultDurationMinutes,
		Mode:            mode,
		Theme:           uiTheme,
		Diagnostics:     diagnostics,
	})
}

func init() {
	uiCmd.Flags().StringVar(&uiSubject, "name", "", "subject name")
	uiCmd.Flags().StringVar(&uiTheme, "theme", "", "TUI theme (default, high-contrast)")
	rootCmd.AddCommand(uiCmd)
}

func promptSubjectName() string {
	fmt.Fprint(os.Stderr, "Subject name: ")
	var name string
	fmt.Fscanln(os.Stdin, &name)
	return name
}
