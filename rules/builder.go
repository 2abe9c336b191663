package rules

// Builder assembles an immutable Engine from phases, producers, and
// validators using a fluent, options-struct style.
type Builder struct {
	config       Config
	phases       []*Phase
	defaultPhase *Phase
}

// NewBuilder starts a Builder with DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithMaxIterations overrides the iteration ceiling.
func (b *Builder) WithMaxIterations(n int) *Builder {
	b.config.MaxIterations = n
	return b
}

// WithTracing turns on RuleActivation tracing.
func (b *Builder) WithTracing(enabled bool) *Builder {
	b.config.EnableTracing = enabled
	return b
}

func (b *Builder) ensureDefaultPhase() *Phase {
	if b.defaultPhase == nil {
		b.defaultPhase = &Phase{Name: "default"}
	}
	return b.defaultPhase
}

// AddProducer registers a producer in the implicit default phase, prepended
// to any explicit phases at Build time.
func (b *Builder) AddProducer(p *Producer) *Builder {
	dp := b.ensureDefaultPhase()
	dp.Producers = append(dp.Producers, p)
	return b
}

// AddValidator registers a validator in the implicit default phase.
func (b *Builder) AddValidator(v *Validator) *Builder {
	dp := b.ensureDefaultPhase()
	dp.Validators = append(dp.Validators, v)
	return b
}

// PhaseBuilder accumulates producers and validators for one explicit phase.
type PhaseBuilder struct {
	phase *Phase
}

// AddProducer registers a producer in this phase.
func (pb *PhaseBuilder) AddProducer(p *Producer) *PhaseBuilder {
	pb.phase.Producers = append(pb.phase.Producers, p)
	return pb
}

// AddValidator registers a validator in this phase.
func (pb *PhaseBuilder) AddValidator(v *Validator) *PhaseBuilder {
	pb.phase.Validators = append(pb.phase.Validators, v)
	return pb
}

// Phase declares an explicit, named phase, configured by fn, appended after
// any prior explicit phases.
func (b *Builder) Phase(name string, fn func(*PhaseBuilder)) *Builder {
	p := &Phase{Name: name}
	pb := &PhaseBuilder{phase: p}
	fn(pb)
	b.phases = append(b.phases, p)
	return b
}

// Build compiles every phase into its network and returns the immutable
// Engine. It panics with a *ConfigurationError on an invalid Config,
// following the engine's fail-fast-at-construction policy.
func (b *Builder) Build() *Engine {
	if err := b.config.validate(); err != nil {
		panic(err)
	}
	phases := make([]*Phase, 0, len(b.phases)+1)
	if b.defaultPhase != nil {
		phases = append(phases, b.defaultPhase)
	}
	phases = append(phases, b.phases...)

	compiled := make([]*compiledPhase, 0, len(phases))
	hasAsync := false
	for _, p := range phases {
		compiled = append(compiled, compilePhase(p))
		for _, prod := range p.Producers {
			hasAsync = hasAsync || prod.IsAsync()
		}
		for _, val := range p.Validators {
			hasAsync = hasAsync || val.IsAsync()
		}
	}
	return &Engine{
		config:   b.config,
		phases:   phases,
		compiled: compiled,
		hasAsync: hasAsync,
	}
}
