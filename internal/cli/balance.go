package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/quantumsync/attune/internal/cache"
	"github.com/quantumsync/attune/internal/db"
	"github.com/quantumsync/attune/internal/models"
	"github.com/quantumsync/attune/internal/notify"
	"github.com/quantumsync/attune/internal/sequencer"
	"github.com/quantumsync/attune/internal/session"
	"github.com/spf13/cobra"
)

var (
	balanceSubject  string
	balanceDuration int
	balanceMode     string
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Run a balancing session to completion",
	Long: `Balance runs a full chakra balancing session without the UI.

Each selected stage runs for the configured duration, and the
completed run is recorded locally and, when a therapist identity is
configured, durably. Interrupting the command stops the session
without recording it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(balanceSubject) == "" {
			return fmt.Errorf("a subject name is required (use --name)")
		}

		mode, err := parseMode(balanceMode)
		if err != nil {
			return err
		}
		duration := balanceDuration
		if duration == 0 {
			duration = appConfig.DefaultDurationMinutes
		}

		database, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		cacheStore := cache.NewStore(appConfig.CacheDir)
		holder := session.NewHolder(cacheStore, db.NewSessionRepository(database), appConfig.TherapistID)

		sink := notify.FuncSink(func(notification notify.Notification) {
			fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", notification.Severity, notification.Title, notification.Body)
		})

		seqConfig := sequencer.DefaultConfig()
		if appConfig.TickInterval > 0 {
			seqConfig.TickInterval = appConfig.TickInterval
		}
		orchestrator := sequencer.New(
			seqConfig,
			holder,
			db.NewDiagnosticRepository(database),
			db.NewEventRepository(database),
			sink,
		)

		recently, err := orchestrator.RecentlyBalanced(balanceSubject)
		if err == nil && recently {
			fmt.Fprintf(os.Stderr, "note: %s was already balanced within the last %s\n",
				balanceSubject, cache.BalanceWindow)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := orchestrator.Start(ctx, balanceSubject, mode, duration); err != nil {
			return err
		}

		state, interrupted := waitForCompletion(ctx, orchestrator)
		if interrupted {
			orchestrator.Stop(context.Background())
			return fmt.Errorf("session interrupted")
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]any{
				"subject":  state.SubjectName,
				"duration": state.DurationMinutes,
				"stages":   state.StageCount,
				"complete": state.Completed,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Balanced %s across %d stages (%d min per stage)\n",
			state.SubjectName, state.StageCount, state.DurationMinutes)
		return nil
	},
}

// waitForCompletion polls the orchestrator until the run finishes or
// the context is cancelled, emitting progress along the way.
func waitForCompletion(ctx context.Context, orchestrator *sequencer.Orchestrator) (sequencer.State, bool) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	showProgress := progressEnabled()
	for {
		select {
		case <-ctx.Done():
			if showProgress {
				fmt.Fprintln(os.Stderr)
			}
			return orchestrator.State(), true
		case <-ticker.C:
			state := orchestrator.State()
			if state.Phase != sequencer.PhaseRunning {
				if showProgress {
					fmt.Fprintln(os.Stderr)
				}
				return state, false
			}
			if showProgress && state.Stage != nil {
				fmt.Fprintf(os.Stderr, "\r%-14s %3.0f%% (stage %d/%d)",
					state.Stage.Name, state.Percent, state.StageIndex+1, state.StageCount)
			}
		}
	}
}

func parseMode(raw string) (models.SelectionMode, error) {
	switch models.SelectionMode(strings.ToLower(strings.TrimSpace(raw))) {
	case models.SelectionModeAll, "":
		return models.SelectionModeAll, nil
	case models.SelectionModeUnbalanced:
		return models.SelectionModeUnbalanced, nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected %s or %s)",
			raw, models.SelectionModeAll, models.SelectionModeUnbalanced)
	}
}

func init() {
	balanceCmd.Flags().StringVar(&balanceSubject, "name", "", "subject name")
	balanceCmd.Flags().IntVar(&balanceDuration, "duration", 0, "minutes per stage (1-5)")
	balanceCmd.Flags().StringVar(&balanceMode, "mode", "", "stage selection mode (all, only-unbalanced)")
	rootCmd.AddCommand(balanceCmd)
}
