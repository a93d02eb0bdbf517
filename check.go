package cfgparse

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Report lists the problems found in a grammar by Check
type Report struct {
	// Cycles of unit rules, like A -> B, B -> A. Self loops are included as
	// one-symbol cycles
	UnitCycles [][]Symbol

	// Unit rules left out of the CNF grammar because they can't be resolved
	// in one hop
	Dropped []*Rule

	// Unit chains A -> B -> C left out while A -> B was resolved through the
	// other rules of B
	Unresolved []*UnitChain

	// Symbols used in a rule body that are neither the head of a rule nor a
	// lexicon tag
	Undefined []Symbol
}

// OK returns true if the grammar has no unit cycle
func (r *Report) OK() bool {
	return len(r.UnitCycles) == 0
}

// Check analyzes the unit rules of a grammar and the symbols it uses. It
// only fails on a malformed grammar
func Check(g *Grammar, opts ...Option) (*Report, error) {
	cnf, err := NewConverter(opts...).Convert(g)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Dropped:    cnf.Dropped,
		Unresolved: cnf.Unresolved,
	}

	// Unit rules form a graph, cycles are its strong components and self loops
	graph := NewDirectedGraph()
	for _, rule := range g.Rules {
		if rule.IsUnit() {
			graph.Add(Vertex(rule.Head), Vertex(rule.Body[0]))
		}
	}
	for _, v := range sortedVertices(graph.Vertices) {
		if graph.HasArc(v, v) {
			report.UnitCycles = append(report.UnitCycles, []Symbol{Symbol(v)})
		}
	}
	for _, component := range graph.StrongComponents() {
		cycle := make([]Symbol, 0, len(component))
		for _, v := range component {
			cycle = append(cycle, Symbol(v))
		}
		report.UnitCycles = append(report.UnitCycles, cycle)
	}

	occursLeft := g.occursLeft()
	undefined := map[Symbol]bool{}
	for _, rule := range g.Rules {
		for _, symbol := range rule.Body {
			if _, ok := occursLeft[symbol]; !ok && !g.Lexicon.Has(symbol) {
				undefined[symbol] = true
			}
		}
	}
	for symbol := range undefined {
		report.Undefined = append(report.Undefined, symbol)
	}
	sort.Slice(report.Undefined, func(i, j int) bool { return report.Undefined[i] < report.Undefined[j] })

	return report, nil
}

// Write prints the report, one problem per line
func (r *Report) Write(w io.Writer) error {
	lines := []string{}
	for _, cycle := range r.UnitCycles {
		symbols := make([]string, 0, len(cycle))
		for _, symbol := range cycle {
			symbols = append(symbols, string(symbol))
		}
		lines = append(lines, "unit cycle: "+strings.Join(symbols, " "))
	}
	for _, rule := range r.Dropped {
		lines = append(lines, "dropped unit rule: "+rule.String())
	}
	for _, chain := range r.Unresolved {
		lines = append(lines, "dropped unit chain: "+chain.String())
	}
	for _, symbol := range r.Undefined {
		lines = append(lines, fmt.Sprintf("undefined symbol: %s", symbol))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrap(err, "write report")
		}
	}
	return nil
}
