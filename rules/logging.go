package rules

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-level sink used by LoggingCollector and the
// runaway-execution warning. A LoggingCollector captures Logger when it is
// created; the runaway warning reads it when emitted. Callers may reassign
// it to redirect or silence diagnostic output.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "rules").Logger()

// LoggingCollector is a Collector that logs every evaluation event at debug
// level, and Completed at info level. It is typically combined with other
// collectors via CompositeCollector.
type LoggingCollector struct {
	log zerolog.Logger
}

// NewLoggingCollector builds a LoggingCollector writing to Logger.
func NewLoggingCollector() *LoggingCollector {
	return &LoggingCollector{log: Logger}
}

func (l *LoggingCollector) Emit(e Event) {
	switch e.Kind {
	case CompletedEvent:
		l.log.Info().
			Int("rule_activations", e.Result.RuleActivations).
			Int("iterations", e.Result.Iterations).
			Bool("passed", e.Result.Passed()).
			Msg("evaluation completed")
	case RuleFiredEvent:
		l.log.Debug().
			Str("rule", e.RuleName).
			Int("priority", e.Priority).
			Int("outputs", len(e.Outputs)).
			Msg("rule fired")
	case RuleSkippedEvent:
		l.log.Debug().
			Str("rule", e.RuleName).
			Str("guard", e.GuardDesc).
			Msg("rule skipped")
	case FactInsertedEvent:
		l.log.Debug().
			Bool("derived", e.IsDerived).
			Interface("fact", describeFact(e.Fact)).
			Msg("fact inserted")
	case ValidationPassedEvent:
		l.log.Debug().Str("rule", e.RuleName).Msg("validation passed")
	case ValidationFailedEvent:
		l.log.Debug().
			Str("rule", e.RuleName).
			Interface("reason", e.Reason).
			Msg("validation failed")
	}
}
