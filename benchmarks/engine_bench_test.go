package benchmarks_test

import (
	"context"
	"testing"
	"time"

	"github.com/block/verdikt/rules"
	"github.com/go-faker/faker/v4"
)

type benchCustomer struct {
	ID         string  `faker:"uuid_digit"`
	TotalSpend float64 `faker:"amount"`
}

type benchVipStatus struct {
	ID   string
	Tier string
}

func generateCustomers(n int) []any {
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		var c benchCustomer
		if err := faker.FakeData(&c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func buildBenchEngine() *rules.Engine {
	return rules.NewBuilder().
		AddProducer(rules.NewProducer("vip-check",
			func(c benchCustomer) bool { return c.TotalSpend > 10_000 },
			func(c benchCustomer) benchVipStatus { return benchVipStatus{ID: c.ID, Tier: "gold"} },
		)).
		Build()
}

func BenchmarkEvaluateSingleProducer(b *testing.B) {
	engine := buildBenchEngine()
	facts := generateCustomers(1000)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Evaluate(ctx, facts, rules.EMPTY, nil); err != nil {
			b.Fatalf("evaluate failed: %v", err)
		}
	}
}

func BenchmarkEvaluateSingleFact(b *testing.B) {
	engine := buildBenchEngine()
	facts := generateCustomers(1)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Evaluate(ctx, facts, rules.EMPTY, nil); err != nil {
			b.Fatalf("evaluate failed: %v", err)
		}
	}
}
