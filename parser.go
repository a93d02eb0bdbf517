package cfgparse

import (
	"context"
	"log/slog"
)

// Parser recognizes sentences of a grammar. The grammar is converted to CNF
// once, a Parser can then be used from several goroutines since every parse
// gets its own chart
type Parser struct {
	options

	grammar    *Grammar
	cnfGrammar *CNFGrammar
}

// NewParser creates a new instance of Parser for grammar
func NewParser(grammar *Grammar, opts ...Option) (*Parser, error) {
	parser := &Parser{
		options: newOptions(opts),
		grammar: grammar,
	}

	cnfGrammar, err := NewConverter(opts...).Convert(grammar)
	if err != nil {
		return nil, err
	}
	parser.cnfGrammar = cnfGrammar
	return parser, nil
}

// Grammar returns the grammar of the parser
func (p *Parser) Grammar() *Grammar {
	return p.grammar
}

// CNF returns the grammar in Chomsky normal form used for parsing
func (p *Parser) CNF() *CNFGrammar {
	return p.cnfGrammar
}

// Start returns the start symbol of the parser
func (p *Parser) Start() Symbol {
	return p.grammar.Start
}

// Parse builds the chart of tokens
func (p *Parser) Parse(tokens []string) *Chart {
	chart := CYK(p.cnfGrammar, tokens)
	if !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return chart
	}
	for length := 1; length <= len(tokens); length++ {
		p.logger.Debug("cky span", "length", length, "cells", chart.row(length))
	}
	return chart
}

// Recognize returns whether tokens derive from the start symbol of the
// grammar
func (p *Parser) Recognize(tokens []string) bool {
	return p.Parse(tokens).Accepts(p.grammar.Start)
}
