package sequencer

// Phase is the sequencer lifecycle phase.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
)

// EventKind identifies a lifecycle event driving the state machine.
type EventKind string

const (
	EvStart         EventKind = "start"
	EvStageComplete EventKind = "stage_complete"
	EvStop          EventKind = "stop"
)

// edge is a single allowed transition in the lifecycle state machine.
type edge struct {
	From  Phase
	Event EventKind
	To    Phase
}

var transitionsTable = []edge{
	// Start path. A new run implicitly resets a finished or running one.
	{From: PhaseIdle, Event: EvStart, To: PhaseRunning},
	{From: PhaseCompleted, Event: EvStart, To: PhaseRunning},
	{From: PhaseRunning, Event: EvStart, To: PhaseRunning},

	// Stage completion either advances within Running or terminates.
	{From: PhaseRunning, Event: EvStageComplete, To: PhaseRunning},
	{From: PhaseRunning, Event: EvStageComplete, To: PhaseCompleted},

	// Stop is allowed from anywhere and always lands in Idle.
	{From: PhaseRunning, Event: EvStop, To: PhaseIdle},
	{From: PhaseCompleted, Event: EvStop, To: PhaseIdle},
	{From: PhaseIdle, Event: EvStop, To: PhaseIdle},
}

// transitionAllowed reports whether the edge from+event→to exists.
func transitionAllowed(from Phase, event EventKind, to Phase) bool {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == event && tr.To == to {
			return true
		}
	}
	return false
}
