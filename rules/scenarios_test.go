package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/block/verdikt/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Customer struct {
	ID         string
	TotalSpend float64
}

type VipStatus struct {
	ID   string
	Tier string
}

type Discount struct {
	ID      string
	Percent int
}

type CartItem struct {
	Name     string
	Quantity int
}

type CartTotal struct {
	Total float64
}

// S1 — single producer.
func TestScenarioVipCheck(t *testing.T) {
	engine := rules.NewBuilder().
		AddProducer(rules.NewProducer("vip-check",
			func(c Customer) bool { return c.TotalSpend > 10_000 },
			func(c Customer) VipStatus { return VipStatus{ID: c.ID, Tier: "gold"} },
		)).
		Build()

	result, err := engine.Evaluate(context.Background(), []any{
		Customer{ID: "1", TotalSpend: 15_000},
		Customer{ID: "2", TotalSpend: 5_000},
		Customer{ID: "3", TotalSpend: 20_000},
	}, rules.EMPTY, nil)
	require.NoError(t, err)

	derived := rules.DerivedOfType[VipStatus](result)
	assert.ElementsMatch(t, []VipStatus{{ID: "1", Tier: "gold"}, {ID: "3", Tier: "gold"}}, derived)
	assert.True(t, result.Passed())
}

// S2 — chain.
func TestScenarioVipDiscountChain(t *testing.T) {
	engine := rules.NewBuilder().
		WithTracing(true).
		AddProducer(rules.NewProducer("vip-check",
			func(c Customer) bool { return c.TotalSpend > 10_000 },
			func(c Customer) VipStatus { return VipStatus{ID: c.ID, Tier: "gold"} },
		)).
		AddProducer(rules.NewProducer("vip-discount",
			func(v VipStatus) bool { return v.Tier == "gold" },
			func(v VipStatus) Discount { return Discount{ID: v.ID, Percent: 20} },
		)).
		Build()

	result, err := engine.Evaluate(context.Background(), []any{Customer{ID: "123", TotalSpend: 15_000}}, rules.EMPTY, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []VipStatus{{ID: "123", Tier: "gold"}}, rules.DerivedOfType[VipStatus](result))
	assert.ElementsMatch(t, []Discount{{ID: "123", Percent: 20}}, rules.DerivedOfType[Discount](result))
	assert.GreaterOrEqual(t, result.Iterations, 2)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, "vip-check", result.Trace[0].RuleName)
	assert.Equal(t, "vip-discount", result.Trace[1].RuleName)
}

// S3 — duplicate suppression.
func TestScenarioDuplicateSuppression(t *testing.T) {
	engine := rules.NewBuilder().
		AddProducer(rules.NewProducer("always-42",
			func(string) bool { return true },
			func(string) int { return 42 },
		)).
		Build()

	result, err := engine.Evaluate(context.Background(), []any{"a", "b", "c"}, rules.EMPTY, nil)
	require.NoError(t, err)

	derived := rules.DerivedOfType[int](result)
	require.Len(t, derived, 1)
	assert.Equal(t, 42, derived[0])
	assert.Equal(t, 1, result.RuleActivations)
}

// S4 — guard skip, both branches.
func TestScenarioGuardSkip(t *testing.T) {
	tierKey := rules.NewContextKey[string]("customer_tier")
	buildEngine := func() *rules.Engine {
		guard := rules.NewGuard("must be VIP", func(ctx rules.RuleContext) bool {
			tier, _ := rules.Get(ctx, tierKey)
			return tier == "vip"
		})
		return rules.NewBuilder().
			AddProducer(rules.NewProducer("vip-only-discount",
				func(Customer) bool { return true },
				func(c Customer) Discount { return Discount{ID: c.ID, Percent: 10} },
			).WithGuard(guard)).
			Build()
	}

	facts := []any{Customer{ID: "1", TotalSpend: 5_000}}

	t.Run("without vip context", func(t *testing.T) {
		result, err := buildEngine().Evaluate(context.Background(), facts, rules.EMPTY, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Derived())
		assert.Equal(t, map[string]string{"vip-only-discount": "must be VIP"}, result.Skipped)
	})

	t.Run("with vip context", func(t *testing.T) {
		ctx := rules.With(rules.EMPTY, tierKey, "vip")
		result, err := buildEngine().Evaluate(context.Background(), facts, ctx, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []Discount{{ID: "1", Percent: 10}}, rules.DerivedOfType[Discount](result))
		assert.Empty(t, result.Skipped)
	})
}

// S5 — validation after fixpoint.
func TestScenarioMaxOrderValidation(t *testing.T) {
	engine := rules.NewBuilder().
		AddProducer(rules.NewProducer("cart-total",
			func(CartItem) bool { return true },
			func(i CartItem) CartTotal { return CartTotal{Total: float64(i.Quantity) * 10} },
		)).
		AddValidator(rules.NewValidator("max-order",
			func(t CartTotal) bool { return t.Total <= 100 },
			func(t CartTotal) any { return "150" },
		)).
		Build()

	result, err := engine.Evaluate(context.Background(), []any{CartItem{Name: "Widget", Quantity: 15}}, rules.EMPTY, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []CartTotal{{Total: 150}}, rules.DerivedOfType[CartTotal](result))
	assert.True(t, result.Failed())
	require.Len(t, result.Verdict.Failures, 1)
	assert.Equal(t, "max-order", result.Verdict.Failures[0].RuleName)
	assert.True(t, strings.Contains(result.Verdict.Failures[0].Reason.(string), "150"))
}

// S6 — priority ordering.
func TestScenarioPriorityOrdering(t *testing.T) {
	var order []string
	collector := rules.CollectorFunc(func(e rules.Event) {
		if e.Kind == rules.RuleFiredEvent {
			order = append(order, e.RuleName)
		}
	})

	engine := rules.NewBuilder().
		AddProducer(rules.NewProducer("low",
			func(string) bool { return true },
			func(s string) Discount { return Discount{ID: s, Percent: 1} },
		).WithPriority(1)).
		AddProducer(rules.NewProducer("high",
			func(string) bool { return true },
			func(s string) Discount { return Discount{ID: s, Percent: 100} },
		).WithPriority(100)).
		Build()

	_, err := engine.Evaluate(context.Background(), []any{"x"}, rules.EMPTY, collector)
	require.NoError(t, err)

	require.Len(t, order, 2)
	assert.Equal(t, "high", order[0])
	assert.Equal(t, "low", order[1])
}

// Universal invariant: evaluations on the same engine are independent.
func TestEvaluationsAreIndependent(t *testing.T) {
	engine := rules.NewBuilder().
		AddProducer(rules.NewProducer("vip-check",
			func(c Customer) bool { return c.TotalSpend > 10_000 },
			func(c Customer) VipStatus { return VipStatus{ID: c.ID, Tier: "gold"} },
		)).
		Build()

	r1, err := engine.Evaluate(context.Background(), []any{Customer{ID: "1", TotalSpend: 15_000}}, rules.EMPTY, nil)
	require.NoError(t, err)
	r2, err := engine.Evaluate(context.Background(), []any{Customer{ID: "2", TotalSpend: 1}}, rules.EMPTY, nil)
	require.NoError(t, err)

	assert.Len(t, r1.Derived(), 1)
	assert.Empty(t, r2.Derived())
}

// Universal invariant: sync and async evaluation agree when no rule is async.
func TestSyncAndAsyncAgree(t *testing.T) {
	build := func() *rules.Engine {
		return rules.NewBuilder().
			AddProducer(rules.NewProducer("vip-check",
				func(c Customer) bool { return c.TotalSpend > 10_000 },
				func(c Customer) VipStatus { return VipStatus{ID: c.ID, Tier: "gold"} },
			)).
			Build()
	}
	facts := []any{Customer{ID: "1", TotalSpend: 15_000}}

	syncResult, err := build().Evaluate(context.Background(), facts, rules.EMPTY, nil)
	require.NoError(t, err)
	asyncResult, err := build().EvaluateAsync(context.Background(), facts, rules.EMPTY, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, syncResult.Facts(), asyncResult.Facts())
	assert.ElementsMatch(t, syncResult.Derived(), asyncResult.Derived())
	assert.Equal(t, syncResult.Verdict, asyncResult.Verdict)
}

// Mode mismatch: sync Evaluate refuses an engine with an async producer.
func TestSyncEvaluateRefusesAsyncEngine(t *testing.T) {
	engine := rules.NewBuilder().
		AddProducer(rules.NewAsyncProducer[Customer, VipStatus]("vip-check-async",
			func(ctx context.Context, c Customer) (bool, error) { return c.TotalSpend > 10_000, nil },
			func(ctx context.Context, c Customer) (VipStatus, error) { return VipStatus{ID: c.ID, Tier: "gold"}, nil },
		)).
		Build()

	_, err := engine.Evaluate(context.Background(), []any{Customer{ID: "1", TotalSpend: 20_000}}, rules.EMPTY, nil)
	require.Error(t, err)
	assert.IsType(t, &rules.ModeMismatchError{}, err)
}

func TestAsyncFallbackProducerRuns(t *testing.T) {
	engine := rules.NewBuilder().
		AddProducer(rules.NewAsyncProducer[Customer, VipStatus]("vip-check-async",
			func(ctx context.Context, c Customer) (bool, error) { return c.TotalSpend > 10_000, nil },
			func(ctx context.Context, c Customer) (VipStatus, error) { return VipStatus{ID: c.ID, Tier: "gold"}, nil },
		)).
		Build()

	result, err := engine.EvaluateAsync(context.Background(), []any{
		Customer{ID: "1", TotalSpend: 20_000},
		Customer{ID: "2", TotalSpend: 1},
	}, rules.EMPTY, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []VipStatus{{ID: "1", Tier: "gold"}}, rules.DerivedOfType[VipStatus](result))
}
