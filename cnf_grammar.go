package cfgparse

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// CNFProduction is a production of a grammar in Chomsky normal form. It's
// either a *CNFRule or a *CNFTerminalRule
type CNFProduction interface {
	// Head returns the symbol in the left of the rule
	Head() Symbol
	String() string

	cnfProduction()
}

// CNFRuleBase is the base struct for CNFRule and CNFTerminalRule
type CNFRuleBase struct {
	// Symbol in the left of rule
	Source Symbol
}

// Head returns the symbol in the left of the rule
func (r *CNFRuleBase) Head() Symbol {
	return r.Source
}

func (r *CNFRuleBase) cnfProduction() {}

// CNFRule stores a binary rule A -> B C of the CNF grammar
type CNFRule struct {
	CNFRuleBase

	// Symbols in the right of rule
	FirstTarget  Symbol
	SecondTarget Symbol
}

// String converts rule to string format
func (r *CNFRule) String() string {
	return fmt.Sprintf("%s %s %s %s", r.Source, ruleArrow, r.FirstTarget, r.SecondTarget)
}

// CNFTerminalRule stores a terminal rule A -> w1 | w2 | ... of the grammar
type CNFTerminalRule struct {
	CNFRuleBase

	// Terminal alternatives of this rule, never empty
	Words []string
}

// String converts rule to string format
func (r *CNFTerminalRule) String() string {
	return fmt.Sprintf("%s %s %s", r.Source, ruleArrow, strings.Join(r.Words, " | "))
}

// CNFGrammar stores the grammar in Chomsky normal form. It's read-only once
// built, so it can be shared by any number of parses
type CNFGrammar struct {
	// Productions in the order they were added
	Productions []CNFProduction

	// Map from targets to rule. For example, rule: A -> BC. It maps (B, C) to
	// the rule itself
	Rules map[Symbol]map[Symbol][]*CNFRule

	// Map from terminal string to the rules that produce it
	TerminalRules map[string][]*CNFTerminalRule

	// Non-terminal symbols introduced while converting, they are not part of
	// the input grammar
	Synthetic map[Symbol]bool

	// Unit rules of the input grammar that could not be resolved
	Dropped []*Rule

	// Unit chains left out of unit rules that were otherwise resolved
	Unresolved []*UnitChain
}

// UnitChain is a unit rule A -> B followed by a unit rule B -> C, where C is
// not a lexicon tag. Resolving A -> B takes one hop, so A -> C is not added
type UnitChain struct {
	Rule *Rule
	Via  *Rule
}

// String converts the chain to string, like "S -> VP -> V"
func (c *UnitChain) String() string {
	return fmt.Sprintf("%s %s %s %s %s", c.Rule.Head, ruleArrow, c.Rule.Body[0], ruleArrow, c.Via.Body[0])
}

// NewCNFGrammar creates a new instance of CNFGrammar
func NewCNFGrammar() *CNFGrammar {
	return &CNFGrammar{
		Productions:   []CNFProduction{},
		Rules:         map[Symbol]map[Symbol][]*CNFRule{},
		TerminalRules: map[string][]*CNFTerminalRule{},
		Synthetic:     map[Symbol]bool{},
	}
}

// AddRule adds a binary rule source -> first second into grammar
func (g *CNFGrammar) AddRule(source, first, second Symbol) *CNFRule {
	rule := &CNFRule{
		CNFRuleBase:  CNFRuleBase{Source: source},
		FirstTarget:  first,
		SecondTarget: second,
	}
	g.add(rule)
	return rule
}

// AddTerminalRule adds a terminal rule source -> words[0] | words[1] ...
func (g *CNFGrammar) AddTerminalRule(source Symbol, words []string) (*CNFTerminalRule, error) {
	if len(words) == 0 {
		return nil, errors.Wrapf(ErrMalformedGrammar, "AddTerminalRule: '%s' has no words", source)
	}
	rule := &CNFTerminalRule{
		CNFRuleBase: CNFRuleBase{Source: source},
		Words:       append([]string(nil), words...),
	}
	g.add(rule)
	return rule, nil
}

// add appends a production and indexes it
func (g *CNFGrammar) add(production CNFProduction) {
	g.Productions = append(g.Productions, production)

	switch rule := production.(type) {
	case *CNFRule:
		if _, ok := g.Rules[rule.FirstTarget]; !ok {
			g.Rules[rule.FirstTarget] = map[Symbol][]*CNFRule{}
		}
		g.Rules[rule.FirstTarget][rule.SecondTarget] = append(
			g.Rules[rule.FirstTarget][rule.SecondTarget],
			rule)
	case *CNFTerminalRule:
		seen := map[string]bool{}
		for _, word := range rule.Words {
			if seen[word] {
				continue
			}
			seen[word] = true
			g.TerminalRules[word] = append(g.TerminalRules[word], rule)
		}
	}
}

// Len returns the number of productions
func (g *CNFGrammar) Len() int {
	return len(g.Productions)
}

// Write prints the productions, one per line
func (g *CNFGrammar) Write(w io.Writer) error {
	for _, production := range g.Productions {
		if _, err := fmt.Fprintln(w, production.String()); err != nil {
			return errors.Wrap(err, "write CNF grammar")
		}
	}
	return nil
}
