package cfgparse

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Converter converts a grammar with a lexicon into Chomsky normal form.
//
// Rules are handled by the length of their body:
//   - binary rules are copied,
//   - long rules are binarized left-branching with fresh symbols X1, X2...,
//   - unit rules A -> B are resolved one hop deep: to the words of B when B
//     is a lexicon tag, otherwise to the binary or binarized bodies of the
//     rules B -> ..., or the words of B -> T when T is a lexicon tag.
//
// Unit rules that can't be resolved that way are left out of the result and
// listed in CNFGrammar.Dropped. A unit rule resolved through some of the rules
// of B but not through a unit rule B -> C lists that chain in
// CNFGrammar.Unresolved.
//
// A Converter keeps the fresh symbol counter between steps of a conversion,
// it must not be used by two goroutines at the same time.
type Converter struct {
	options

	grammar *Grammar
	used    map[Symbol]bool
	counter int

	// intermediate rules produced by binarization, they are added to the
	// result after everything else
	intermediate [][2]Symbol
	heads        []Symbol
}

// NewConverter creates a new Converter
func NewConverter(opts ...Option) *Converter {
	return &Converter{options: newOptions(opts)}
}

// Convert converts g into Chomsky normal form. g is not modified. The fresh
// symbol counter starts from 1 on every call
func (c *Converter) Convert(g *Grammar) (*CNFGrammar, error) {
	for i, rule := range g.Rules {
		if rule == nil {
			return nil, errors.Wrapf(ErrMalformedGrammar, "Convert: rule %d is nil", i)
		}
		if len(rule.Body) == 0 {
			return nil, errors.Wrapf(ErrMalformedGrammar, "Convert: '%s' has an empty body", rule.Head)
		}
	}

	c.grammar = g
	c.used = g.Symbols()
	c.counter = 0
	c.intermediate = nil
	c.heads = nil
	defer func() {
		c.grammar = nil
		c.used = nil
	}()

	occursLeft := g.occursLeft()
	cnf := NewCNFGrammar()
	for _, rule := range g.Rules {
		switch {
		case rule.IsBinary():
			cnf.AddRule(rule.Head, rule.Body[0], rule.Body[1])

		case rule.IsLong():
			first, second := c.binarize(rule.Body)
			cnf.AddRule(rule.Head, first, second)

		case rule.IsUnit():
			resolved, err := c.resolveUnit(cnf, rule, occursLeft[rule.Body[0]])
			if err != nil {
				return nil, err
			}
			if !resolved {
				c.logger.Debug("unit rule dropped", "rule", rule.String())
				cnf.Dropped = append(cnf.Dropped, rule)
			}
		}
	}

	// Every lexicon tag gets its own terminal rule
	for _, tag := range g.Lexicon.Tags() {
		if _, err := cnf.AddTerminalRule(tag, g.Lexicon.Words(tag)); err != nil {
			return nil, err
		}
	}

	for i, targets := range c.intermediate {
		cnf.AddRule(c.heads[i], targets[0], targets[1])
		cnf.Synthetic[c.heads[i]] = true
	}

	c.logger.Debug("grammar converted to CNF",
		"rules", len(g.Rules),
		"lexicon", g.Lexicon.Len(),
		"productions", cnf.Len(),
		"synthetic", len(cnf.Synthetic),
		"dropped", len(cnf.Dropped),
		"unresolved", len(cnf.Unresolved))
	return cnf, nil
}

// resolveUnit adds the rules replacing unit rule A -> B. targets are the
// rules with B in the left. It returns false if nothing was added. When
// something was added, the unit rules B -> C skipped on the way are kept in
// cnf.Unresolved
func (c *Converter) resolveUnit(cnf *CNFGrammar, rule *Rule, targets []*Rule) (bool, error) {
	head, target := rule.Head, rule.Body[0]
	lexicon := c.grammar.Lexicon

	// A -> B where B is a tag
	if lexicon.Has(target) {
		if _, err := cnf.AddTerminalRule(head, lexicon.Words(target)); err != nil {
			return false, err
		}
		return true, nil
	}

	resolved := false
	skipped := []*Rule{}
	for _, targetRule := range targets {
		switch {
		case targetRule.IsLong():
			// A -> B, B -> C D E: A -> X D E is binarized
			first, second := c.binarize(targetRule.Body)
			cnf.AddRule(head, first, second)
			resolved = true

		case targetRule.IsBinary():
			cnf.AddRule(head, targetRule.Body[0], targetRule.Body[1])
			resolved = true

		case targetRule.IsUnit() && lexicon.Has(targetRule.Body[0]):
			if _, err := cnf.AddTerminalRule(head, lexicon.Words(targetRule.Body[0])); err != nil {
				return false, err
			}
			resolved = true

		case targetRule.IsUnit():
			skipped = append(skipped, targetRule)
		}
	}

	if resolved {
		for _, via := range skipped {
			chain := &UnitChain{Rule: rule, Via: via}
			c.logger.Debug("unit chain dropped", "chain", chain.String())
			cnf.Unresolved = append(cnf.Unresolved, chain)
		}
	}
	return resolved, nil
}

// binarize reduces body to two symbols by replacing the two left-most
// symbols with a fresh one until two symbols remain. The rules of the fresh
// symbols are kept in c.intermediate, the remaining two symbols are returned
func (c *Converter) binarize(body []Symbol) (Symbol, Symbol) {
	remaining := append([]Symbol(nil), body...)
	for len(remaining) > 2 {
		symbol := c.newNonTerminal()
		c.heads = append(c.heads, symbol)
		c.intermediate = append(c.intermediate, [2]Symbol{remaining[0], remaining[1]})
		remaining = append([]Symbol{symbol}, remaining[2:]...)
	}
	return remaining[0], remaining[1]
}

// newNonTerminal generates a new non-terminal name like X1, X2, ... skipping
// names already used by the grammar
func (c *Converter) newNonTerminal() Symbol {
	for {
		c.counter++
		symbol := Symbol(fmt.Sprintf("X%d", c.counter))
		if !c.used[symbol] {
			c.used[symbol] = true
			return symbol
		}
	}
}

// Convert converts g into Chomsky normal form with a new Converter
func Convert(g *Grammar, opts ...Option) (*CNFGrammar, error) {
	return NewConverter(opts...).Convert(g)
}

// options are shared by Converter and Parser
type options struct {
	logger *slog.Logger
}

// Option configures a Converter or a Parser
type Option func(*options)

// WithLogger sets the logger used for debug output
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
