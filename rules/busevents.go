package rules

import "github.com/asaskevich/EventBus"

// Event bus topics EventBusCollector republishes onto, named after the
// event kinds so in-process subscribers can wire a handler per topic
// rather than switching on Event.Kind themselves.
const (
	TopicFactInserted     = "rules:fact_inserted"
	TopicRuleFired        = "rules:rule_fired"
	TopicRuleSkipped      = "rules:rule_skipped"
	TopicValidationPassed = "rules:validation_passed"
	TopicValidationFailed = "rules:validation_failed"
	TopicCompleted        = "rules:completed"
)

// EventBusCollector republishes every evaluation event onto an
// asaskevich/EventBus bus, so subscribers elsewhere in a process can listen
// for rule activity without holding a reference to the Collector passed
// into Evaluate.
type EventBusCollector struct {
	bus EventBus.Bus
}

// NewEventBusCollector wraps bus in a Collector.
func NewEventBusCollector(bus EventBus.Bus) *EventBusCollector {
	return &EventBusCollector{bus: bus}
}

func (c *EventBusCollector) Emit(e Event) {
	switch e.Kind {
	case FactInsertedEvent:
		c.bus.Publish(TopicFactInserted, e.Fact, e.IsDerived)
	case RuleFiredEvent:
		c.bus.Publish(TopicRuleFired, e.RuleName, e.InputFact, e.Outputs, e.Priority)
	case RuleSkippedEvent:
		c.bus.Publish(TopicRuleSkipped, e.RuleName, e.GuardDesc)
	case ValidationPassedEvent:
		c.bus.Publish(TopicValidationPassed, e.RuleName, e.Fact)
	case ValidationFailedEvent:
		c.bus.Publish(TopicValidationFailed, e.RuleName, e.Fact, e.Reason)
	case CompletedEvent:
		c.bus.Publish(TopicCompleted, e.Result)
	}
}
