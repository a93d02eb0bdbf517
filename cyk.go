package cfgparse

import (
	"fmt"
	"strings"
)

// derivation records how a symbol was first derived in a chart cell
type derivation struct {
	// split is -1 for a terminal rule applied to the token
	split       int
	left, right Symbol
}

// cykCell is the set of symbols deriving one span, in the order they were
// found
type cykCell struct {
	symbols     []Symbol
	derivations map[Symbol]derivation
}

func newCYKCell() *cykCell {
	return &cykCell{derivations: map[Symbol]derivation{}}
}

// add inserts symbol into the cell and returns false if it was already there
func (c *cykCell) add(symbol Symbol, d derivation) bool {
	if _, ok := c.derivations[symbol]; ok {
		return false
	}
	c.symbols = append(c.symbols, symbol)
	c.derivations[symbol] = d
	return true
}

// Chart is the CKY table of a sentence. Cell [i][j], 0 <= i < j <= n, holds
// the symbols deriving tokens[i:j]
type Chart struct {
	tokens  []string
	grammar *CNFGrammar
	cells   [][]*cykCell
}

func newChart(grammar *CNFGrammar, tokens []string) *Chart {
	n := len(tokens)
	chart := &Chart{
		tokens:  append([]string(nil), tokens...),
		grammar: grammar,
		cells:   make([][]*cykCell, n),
	}
	for i := range chart.cells {
		chart.cells[i] = make([]*cykCell, n+1)
		for j := i + 1; j <= n; j++ {
			chart.cells[i][j] = newCYKCell()
		}
	}
	return chart
}

// CYK fills the chart of tokens with the CKY algorithm. Spans are filled by
// increasing length since each span only depends on shorter ones
func CYK(grammar *CNFGrammar, tokens []string) *Chart {
	chart := newChart(grammar, tokens)
	n := len(tokens)

	// Spans of length 1: apply all terminal rules
	for j := 1; j <= n; j++ {
		for _, rule := range grammar.TerminalRules[tokens[j-1]] {
			chart.cells[j-1][j].add(rule.Source, derivation{split: -1})
		}
	}

	// Spans of length 2 to n: apply binary rules
	for length := 2; length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			chart.induce(start, start+length)
		}
	}
	return chart
}

// induce applies every binary rule on every split of span [i, j) and
// returns whether any symbol was added
func (c *Chart) induce(i, j int) bool {
	target := c.cells[i][j]
	added := false
	for k := i + 1; k < j; k++ {
		left, right := c.cells[i][k], c.cells[k][j]
		for _, first := range left.symbols {
			rightRules, ok := c.grammar.Rules[first]
			if !ok {
				continue
			}
			for _, second := range right.symbols {
				for _, rule := range rightRules[second] {
					d := derivation{split: k, left: first, right: second}
					if target.add(rule.Source, d) {
						added = true
					}
				}
			}
		}
	}
	return added
}

// Parse returns whether tokens can be derived from start with grammar
func Parse(tokens []string, grammar *CNFGrammar, start Symbol) bool {
	return CYK(grammar, tokens).Accepts(start)
}

// Len returns the number of tokens
func (c *Chart) Len() int {
	return len(c.tokens)
}

// Tokens returns the tokens of the chart
func (c *Chart) Tokens() []string {
	return append([]string(nil), c.tokens...)
}

func (c *Chart) cell(i, j int) *cykCell {
	if i < 0 || j > len(c.tokens) || i >= j {
		return nil
	}
	return c.cells[i][j]
}

// Cell returns the symbols deriving tokens[i:j] in the order they were
// found. It returns nil for spans outside the chart
func (c *Chart) Cell(i, j int) []Symbol {
	cell := c.cell(i, j)
	if cell == nil {
		return nil
	}
	return append([]Symbol(nil), cell.symbols...)
}

// Contains returns whether symbol derives tokens[i:j]
func (c *Chart) Contains(i, j int, symbol Symbol) bool {
	cell := c.cell(i, j)
	if cell == nil {
		return false
	}
	_, ok := cell.derivations[symbol]
	return ok
}

// Accepts returns whether the whole sentence derives from start. An empty
// sentence is never accepted
func (c *Chart) Accepts(start Symbol) bool {
	return c.Contains(0, len(c.tokens), start)
}

// row gets the string representation of the cells of one span length
func (c *Chart) row(length int) string {
	reprs := []string{}
	for start := 0; start+length <= len(c.tokens); start++ {
		cell := c.cells[start][start+length]
		symbols := make([]string, 0, len(cell.symbols))
		for _, symbol := range cell.symbols {
			symbols = append(symbols, string(symbol))
		}
		reprs = append(reprs, fmt.Sprintf("[%d: %s]", start, strings.Join(symbols, " ")))
	}
	return strings.Join(reprs, " ")
}

// String prints one line per start position, listing cells [i][i+1] to
// [i][n]
func (c *Chart) String() string {
	var sb strings.Builder
	for i := range c.cells {
		for j := i + 1; j <= len(c.tokens); j++ {
			if j > i+1 {
				sb.WriteString(" ")
			}
			symbols := make([]string, 0, len(c.cells[i][j].symbols))
			for _, symbol := range c.cells[i][j].symbols {
				symbols = append(symbols, string(symbol))
			}
			fmt.Fprintf(&sb, "{%s}", strings.Join(symbols, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
