package main

import (
	"context"
	"fmt"

	"github.com/block/verdikt/rules"
)

// Customer, VipStatus, Discount, CartItem, and CartTotal are the fact types
// the worked scenarios below exercise.
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

// scenario is one runnable demonstration, named after its id.
type scenario struct {
	id          string
	description string
	build       func() *rules.Engine
	facts       []any
	ctx         rules.RuleContext
}

var customerTierKey = rules.NewContextKey[string]("customer_tier")

var scenarios = []scenario{
	{
		id:          "S1",
		description: "single producer: vip-check",
		build: func() *rules.Engine {
			return rules.NewBuilder().
				AddProducer(rules.NewProducer("vip-check",
					func(c Customer) bool { return c.TotalSpend > 10_000 },
					func(c Customer) VipStatus { return VipStatus{ID: c.ID, Tier: "gold"} },
				)).
				Build()
		},
		facts: []any{
			Customer{ID: "1", TotalSpend: 15_000},
			Customer{ID: "2", TotalSpend: 5_000},
			Customer{ID: "3", TotalSpend: 20_000},
		},
	},
	{
		id:          "S2",
		description: "chain: vip-check then vip-discount",
		build: func() *rules.Engine {
			return rules.NewBuilder().
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
		},
		facts: []any{Customer{ID: "123", TotalSpend: 15_000}},
	},
	{
		id:          "S3",
		description: "duplicate suppression: always-42",
		build: func() *rules.Engine {
			return rules.NewBuilder().
				AddProducer(rules.NewProducer("always-42",
					func(string) bool { return true },
					func(string) int { return 42 },
				)).
				Build()
		},
		facts: []any{"a", "b", "c"},
	},
	{
		id:          "S4",
		description: "guard skip: vip-only-discount",
		build: func() *rules.Engine {
			guard := rules.NewGuard("must be VIP", func(c rules.RuleContext) bool {
				tier, _ := rules.Get(c, customerTierKey)
				return tier == "vip"
			})
			return rules.NewBuilder().
				AddProducer(rules.NewProducer("vip-only-discount",
					func(c Customer) bool { return true },
					func(c Customer) Discount { return Discount{ID: c.ID, Percent: 10} },
				).WithGuard(guard)).
				Build()
		},
		facts: []any{Customer{ID: "1", TotalSpend: 5_000}},
		ctx:   rules.EMPTY,
	},
	{
		id:          "S5",
		description: "validation after fixpoint: max-order",
		build: func() *rules.Engine {
			return rules.NewBuilder().
				AddProducer(rules.NewProducer("cart-total",
					func(CartItem) bool { return true },
					func(i CartItem) CartTotal { return CartTotal{Total: float64(i.Quantity) * 10} },
				)).
				AddValidator(rules.NewValidator("max-order",
					func(t CartTotal) bool { return t.Total <= 100 },
					func(t CartTotal) any { return fmt.Sprintf("cart total %.0f exceeds limit of 100", t.Total) },
				)).
				Build()
		},
		facts: []any{CartItem{Name: "Widget", Quantity: 15}},
	},
	{
		id:          "S6",
		description: "priority ordering: high before low",
		build: func() *rules.Engine {
			return rules.NewBuilder().
				AddProducer(rules.NewProducer("low",
					func(string) bool { return true },
					func(s string) Discount { return Discount{ID: s, Percent: 1} },
				).WithPriority(1)).
				AddProducer(rules.NewProducer("high",
					func(string) bool { return true },
					func(s string) Discount { return Discount{ID: s, Percent: 100} },
				).WithPriority(100)).
				Build()
		},
		facts: []any{"x"},
	},
}

// runScenario builds and evaluates s. The zero value of rules.RuleContext
// behaves identically to rules.EMPTY (lookups against its nil map simply
// miss), so scenarios that don't set ctx need not construct it explicitly.
func runScenario(s scenario) (*rules.EngineResult, error) {
	engine := s.build()
	return engine.Evaluate(context.Background(), s.facts, s.ctx, rules.NewLoggingCollector())
}
