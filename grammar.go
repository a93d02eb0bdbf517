package cfgparse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultStartSymbol is the start symbol used when a grammar doesn't name one
const DefaultStartSymbol = Symbol("S")

// Grammar consists a list of context-free rules and a lexicon that attaches
// words to tags
type Grammar struct {
	Start   Symbol
	Rules   []*Rule
	Lexicon *Lexicon
}

// NewGrammar creates a grammar. A nil lexicon is replaced by an empty one
func NewGrammar(start Symbol, rules []*Rule, lexicon *Lexicon) *Grammar {
	if start == "" {
		start = DefaultStartSymbol
	}
	if lexicon == nil {
		lexicon = NewLexicon()
	}
	return &Grammar{
		Start:   start,
		Rules:   append([]*Rule(nil), rules...),
		Lexicon: lexicon,
	}
}

// ParseGrammar parses grammar rules from string, one rule per line. Lines
// starting with '#' or ';' are comments. The start symbol can be given with
// a "%start S" line, it's DefaultStartSymbol otherwise
func ParseGrammar(grammarText string) (*Grammar, error) {
	grammar := NewGrammar(DefaultStartSymbol, nil, nil)
	for i, line := range strings.Split(grammarText, "\n") {
		line = strings.TrimSpace(line)

		// Start command
		if strings.HasPrefix(line, "%start") {
			start := Symbol(strings.TrimSpace(line[len("%start"):]))
			if !start.IsValid() {
				return nil, errors.Errorf("ParseGrammar: line %d: unexpected start symbol '%s'", i+1, start)
			}
			grammar.Start = start
			continue
		}

		// Comments
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}

		rules, err := ParseRule(line)
		if err != nil {
			return nil, errors.Wrapf(err, "ParseGrammar: line %d", i+1)
		}
		grammar.Rules = append(grammar.Rules, rules...)
	}
	return grammar, nil
}

// LoadGrammar reads a grammar file. Files ending in .yaml or .yml are read
// with ParseGrammarYAML, anything else with ParseGrammar
func LoadGrammar(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load grammar")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseGrammarYAML(data)
	default:
		return ParseGrammar(string(data))
	}
}

// Symbols returns every symbol used by the rules and the lexicon tags
func (g *Grammar) Symbols() map[Symbol]bool {
	symbols := map[Symbol]bool{g.Start: true}
	for _, rule := range g.Rules {
		symbols[rule.Head] = true
		for _, symbol := range rule.Body {
			symbols[symbol] = true
		}
	}
	for _, tag := range g.Lexicon.Tags() {
		symbols[tag] = true
	}
	return symbols
}

// occursLeft maps each head to its rules, in input order
func (g *Grammar) occursLeft() map[Symbol][]*Rule {
	occurs := map[Symbol][]*Rule{}
	for _, rule := range g.Rules {
		occurs[rule.Head] = append(occurs[rule.Head], rule)
	}
	return occurs
}

// Write prints the grammar rules followed by the lexical rules
func (g *Grammar) Write(w io.Writer) error {
	for _, rule := range g.Rules {
		if _, err := fmt.Fprintln(w, rule.String()); err != nil {
			return errors.Wrap(err, "write grammar")
		}
	}
	if g.Lexicon.Len() == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return errors.Wrap(err, "write grammar")
	}
	return WriteLexicon(w, g.Lexicon)
}
