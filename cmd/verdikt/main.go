// Command verdikt runs a set of worked scenarios against the rules engine
// and prints the resulting verdicts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/block/verdikt/rules"
	"github.com/spf13/cobra"
)

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.id == id {
			return s, true
		}
	}
	return scenario{}, false
}

func printResult(id string, result *rules.EngineResult) {
	fmt.Printf("%s: %d fact(s), %d derived, %d activation(s), %d iteration(s)\n",
		id, len(result.Facts()), len(result.Derived()), result.RuleActivations, result.Iterations)
	for _, f := range result.Derived() {
		fmt.Printf("  derived: %+v\n", f)
	}
	for name, guard := range result.Skipped {
		fmt.Printf("  skipped: %s (%s)\n", name, guard)
	}
	if result.Passed() {
		fmt.Println("  verdict: Pass")
	} else {
		fmt.Println("  verdict: Fail")
		for _, f := range result.Verdict.Failures {
			fmt.Printf("    - %s: %v\n", f.RuleName, f.Reason)
		}
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func main() {
	root := &cobra.Command{
		Use:   "verdikt",
		Short: "Run the worked rules-engine scenarios from the command line",
	}

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range scenarios {
				fmt.Printf("%s\t%s\n", s.id, s.description)
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "run [scenario-id]",
		Short: "Run one scenario, or all of them if no id is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, s := range scenarios {
					result, err := runScenario(s)
					if err != nil {
						return fmt.Errorf("%s: %w", s.id, err)
					}
					printResult(s.id, result)
				}
				if vip, err := runS4WithVipContext(); err == nil {
					printResult("S4 (with vip context)", vip)
				}
				return nil
			}
			s, ok := findScenario(args[0])
			if !ok {
				return fmt.Errorf("unknown scenario %q", args[0])
			}
			result, err := runScenario(s)
			if err != nil {
				return err
			}
			printResult(s.id, result)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runS4WithVipContext re-runs S4's guarded producer with a context that
// satisfies the guard, demonstrating the context-dependent half of S4.
func runS4WithVipContext() (*rules.EngineResult, error) {
	s, _ := findScenario("S4")
	engine := s.build()
	ctx := rules.With(rules.EMPTY, customerTierKey, "vip")
	return engine.Evaluate(context.Background(), s.facts, ctx, rules.NewLoggingCollector())
}
