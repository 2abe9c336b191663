package rules

import (
	"context"
	"fmt"
	"reflect"
)

type matchFunc func(any) (bool, error)
type produceFunc func(context.Context, any) (any, bool, error)
type asyncMatchFunc func(context.Context, any) (bool, error)
type asyncProduceFunc func(context.Context, any) (any, bool, error)

// Producer declares an input type, an optional Guard, a condition predicate,
// and an output function. A producer is async iff either its condition or
// its output function is async.
type Producer struct {
	Name        string
	Description string
	Priority    int
	Guard       *Guard

	inputType    reflect.Type
	async        bool
	match        matchFunc
	produce      produceFunc
	asyncMatch   asyncMatchFunc
	asyncProduce asyncProduceFunc
}

// IsAsync reports whether this producer must run outside the compiled
// network, in the fallback loop.
func (p *Producer) IsAsync() bool { return p.async }

// WithPriority sets the producer's firing priority; higher fires first.
func (p *Producer) WithPriority(priority int) *Producer { p.Priority = priority; return p }

// WithDescription attaches a human-readable description.
func (p *Producer) WithDescription(d string) *Producer { p.Description = d; return p }

// WithGuard attaches a Guard, evaluated once per phase before any fact.
func (p *Producer) WithGuard(g *Guard) *Producer { p.Guard = g; return p }

func (p *Producer) matchFact(ctx context.Context, fact any) (bool, error) {
	if p.async {
		return p.asyncMatch(ctx, fact)
	}
	return p.match(fact)
}

func (p *Producer) callProduce(ctx context.Context, fact any) (any, bool, error) {
	if p.async {
		return p.asyncProduce(ctx, fact)
	}
	return p.produce(ctx, fact)
}

// NewProducer builds a synchronous producer whose output function always
// yields a fact for a matching input.
func NewProducer[In, Out any](name string, condition func(In) bool, produce func(In) Out) *Producer {
	return &Producer{
		Name:      name,
		inputType: typeOf[In](),
		match: func(fact any) (bool, error) {
			in, ok := fact.(In)
			if !ok {
				return false, nil
			}
			return condition(in), nil
		},
		produce: func(_ context.Context, fact any) (any, bool, error) {
			in, ok := fact.(In)
			if !ok {
				return nil, false, fmt.Errorf("rules: producer %q received unexpected fact type %T", name, fact)
			}
			return produce(in), true, nil
		},
	}
}

// NewProducerOptional builds a synchronous producer whose output function
// may decline to produce a fact for a given input.
func NewProducerOptional[In, Out any](name string, condition func(In) bool, produce func(In) (Out, bool)) *Producer {
	return &Producer{
		Name:      name,
		inputType: typeOf[In](),
		match: func(fact any) (bool, error) {
			in, ok := fact.(In)
			if !ok {
				return false, nil
			}
			return condition(in), nil
		},
		produce: func(_ context.Context, fact any) (any, bool, error) {
			in, ok := fact.(In)
			if !ok {
				return nil, false, fmt.Errorf("rules: producer %q received unexpected fact type %T", name, fact)
			}
			out, produced := produce(in)
			return out, produced, nil
		},
	}
}

// NewProducerE builds a synchronous producer whose condition and output
// function may themselves fail; a returned error aborts the evaluation.
func NewProducerE[In, Out any](name string, condition func(In) (bool, error), produce func(In) (Out, error)) *Producer {
	return &Producer{
		Name:      name,
		inputType: typeOf[In](),
		match: func(fact any) (bool, error) {
			in, ok := fact.(In)
			if !ok {
				return false, nil
			}
			return condition(in)
		},
		produce: func(_ context.Context, fact any) (any, bool, error) {
			in, ok := fact.(In)
			if !ok {
				return nil, false, fmt.Errorf("rules: producer %q received unexpected fact type %T", name, fact)
			}
			out, err := produce(in)
			if err != nil {
				return nil, false, err
			}
			return out, true, nil
		},
	}
}

// NewAsyncProducer builds an async producer whose output function always
// yields a fact for a matching input. An engine containing any async
// producer must be evaluated with EvaluateAsync.
func NewAsyncProducer[In, Out any](name string, condition func(context.Context, In) (bool, error), produce func(context.Context, In) (Out, error)) *Producer {
	return &Producer{
		Name:      name,
		inputType: typeOf[In](),
		async:     true,
		asyncMatch: func(ctx context.Context, fact any) (bool, error) {
			in, ok := fact.(In)
			if !ok {
				return false, nil
			}
			return condition(ctx, in)
		},
		asyncProduce: func(ctx context.Context, fact any) (any, bool, error) {
			in, ok := fact.(In)
			if !ok {
				return nil, false, fmt.Errorf("rules: producer %q received unexpected fact type %T", name, fact)
			}
			out, err := produce(ctx, in)
			if err != nil {
				return nil, false, err
			}
			return out, true, nil
		},
	}
}

// NewAsyncProducerOptional builds an async producer whose output function
// may decline to produce a fact for a given input.
func NewAsyncProducerOptional[In, Out any](name string, condition func(context.Context, In) (bool, error), produce func(context.Context, In) (Out, bool, error)) *Producer {
	return &Producer{
		Name:      name,
		inputType: typeOf[In](),
		async:     true,
		asyncMatch: func(ctx context.Context, fact any) (bool, error) {
			in, ok := fact.(In)
			if !ok {
				return false, nil
			}
			return condition(ctx, in)
		},
		asyncProduce: func(ctx context.Context, fact any) (any, bool, error) {
			in, ok := fact.(In)
			if !ok {
				return nil, false, fmt.Errorf("rules: producer %q received unexpected fact type %T", name, fact)
			}
			return produce(ctx, in)
		},
	}
}

// Validator declares an input type, an optional Guard, priority, a
// condition, and a failureReason function.
type Validator struct {
	Name        string
	Description string
	Priority    int
	Guard       *Guard

	inputType      reflect.Type
	async          bool
	conditionSync  func(any) (bool, error)
	conditionAsync func(context.Context, any) (bool, error)
	reasonSync     func(any) (any, error)
	reasonAsync    func(context.Context, any) (any, error)
}

// IsAsync reports whether this validator's condition or reason is async.
func (v *Validator) IsAsync() bool { return v.async }

// WithPriority sets the validator's declared priority (informational; all
// validators from every phase run once, in declaration order, after the
// last phase's fixpoint).
func (v *Validator) WithPriority(priority int) *Validator { v.Priority = priority; return v }

// WithDescription attaches a human-readable description.
func (v *Validator) WithDescription(d string) *Validator { v.Description = d; return v }

// WithGuard attaches a Guard, evaluated once before any fact is examined.
func (v *Validator) WithGuard(g *Guard) *Validator { v.Guard = g; return v }

func (v *Validator) evaluate(ctx context.Context, fact any) (bool, error) {
	if v.async {
		return v.conditionAsync(ctx, fact)
	}
	return v.conditionSync(fact)
}

func (v *Validator) failureReason(ctx context.Context, fact any) (any, error) {
	if v.async {
		return v.reasonAsync(ctx, fact)
	}
	return v.reasonSync(fact)
}

// NewValidator builds a synchronous validator.
func NewValidator[T any](name string, condition func(T) bool, reason func(T) any) *Validator {
	return &Validator{
		Name:      name,
		inputType: typeOf[T](),
		conditionSync: func(fact any) (bool, error) {
			in, ok := fact.(T)
			if !ok {
				return false, fmt.Errorf("rules: validator %q received unexpected fact type %T", name, fact)
			}
			return condition(in), nil
		},
		reasonSync: func(fact any) (any, error) {
			in, ok := fact.(T)
			if !ok {
				return nil, fmt.Errorf("rules: validator %q received unexpected fact type %T", name, fact)
			}
			return reason(in), nil
		},
	}
}

// NewValidatorE builds a synchronous validator whose condition and reason
// function may themselves fail.
func NewValidatorE[T any](name string, condition func(T) (bool, error), reason func(T) (any, error)) *Validator {
	return &Validator{
		Name:      name,
		inputType: typeOf[T](),
		conditionSync: func(fact any) (bool, error) {
			in, ok := fact.(T)
			if !ok {
				return false, fmt.Errorf("rules: validator %q received unexpected fact type %T", name, fact)
			}
			return condition(in)
		},
		reasonSync: func(fact any) (any, error) {
			in, ok := fact.(T)
			if !ok {
				return nil, fmt.Errorf("rules: validator %q received unexpected fact type %T", name, fact)
			}
			return reason(in)
		},
	}
}

// NewAsyncValidator builds an async validator.
func NewAsyncValidator[T any](name string, condition func(context.Context, T) (bool, error), reason func(context.Context, T) (any, error)) *Validator {
	return &Validator{
		Name:      name,
		inputType: typeOf[T](),
		async:     true,
		conditionAsync: func(ctx context.Context, fact any) (bool, error) {
			in, ok := fact.(T)
			if !ok {
				return false, fmt.Errorf("rules: validator %q received unexpected fact type %T", name, fact)
			}
			return condition(ctx, in)
		},
		reasonAsync: func(ctx context.Context, fact any) (any, error) {
			in, ok := fact.(T)
			if !ok {
				return nil, fmt.Errorf("rules: validator %q received unexpected fact type %T", name, fact)
			}
			return reason(ctx, in)
		},
	}
}
