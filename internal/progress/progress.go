package progress

import "github.com/rs/zerolog"

// Phase names of the analysis/extraction progress protocol.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseBuilding  Phase = "building-rules"
	PhaseOracle    Phase = "oracle-extraction"
	PhaseAnalyzing Phase = "analyzing"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
)

// Event is one progress report. Current/Total are in phase-local units
// (rows, batches); Total of 0 means indeterminate.
type Event struct {
	Phase   Phase
	Current int
	Total   int
	Message string
}

// Reporter consumes progress events. Implementations must be safe to call
// from the single orchestrator goroutine, nothing more.
type Reporter interface {
	Report(Event)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Report(Event) {}

// Log reports phase transitions and chunk completion via zerolog.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) Report(e Event) {
	ev := l.Logger.Info()
	if e.Phase == PhaseError {
		ev = l.Logger.Error()
	}
	ev = ev.Str("phase", string(e.Phase))
	if e.Total > 0 {
		ev = ev.Int("current", e.Current).Int("total", e.Total)
	}
	ev.Msg(e.Message)
}
