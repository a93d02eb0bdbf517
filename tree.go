package cfgparse

import (
	"fmt"
	"strings"
)

// Node represents a single node in parsing tree
type Node struct {
	// Children nodes, nil for a token
	Children []*Node

	// Symbol in current node, or the token of a leaf
	Symbol string
}

// Tree represents one derivation of a sentence
type Tree struct {
	*Node
}

// Tree reads one derivation of start over the whole sentence from the chart.
// It returns nil when the sentence is not accepted. Symbols introduced by
// binarization are removed so long rules show up as flat nodes
func (c *Chart) Tree(start Symbol) *Tree {
	if !c.Accepts(start) {
		return nil
	}
	nodes := c.constructParsingTree(start, 0, len(c.tokens))
	if c.grammar.Synthetic[start] {
		return &Tree{Node: &Node{Children: nodes, Symbol: string(start)}}
	}
	return &Tree{Node: nodes[0]}
}

// constructParsingTree builds the nodes of symbol over span [i, j). It
// returns the children directly when symbol is synthetic
func (c *Chart) constructParsingTree(symbol Symbol, i, j int) []*Node {
	d := c.cells[i][j].derivations[symbol]

	var children []*Node
	if d.split < 0 {
		children = []*Node{{Symbol: c.tokens[i]}}
	} else {
		children = append(
			c.constructParsingTree(d.left, i, d.split),
			c.constructParsingTree(d.right, d.split, j)...)
	}

	if c.grammar.Synthetic[symbol] {
		return children
	}
	return []*Node{{Children: children, Symbol: string(symbol)}}
}

// Leaves returns the tokens under the node, from left to right
func (n *Node) Leaves() []string {
	if n.Children == nil {
		return []string{n.Symbol}
	}
	leaves := []string{}
	for _, child := range n.Children {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// String converts the node to a one-line bracketed string, like
// (S (NP (N I)) (VP (V enjoy) ...))
func (n *Node) String() string {
	if n.Children == nil {
		return n.Symbol
	}
	childrenReprs := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		childrenReprs = append(childrenReprs, child.String())
	}
	return fmt.Sprintf("(%s %s)", n.Symbol, strings.Join(childrenReprs, " "))
}

// Pretty converts the node to an indented string, one node per line
func (n *Node) Pretty() string {
	return n.repr(0)
}

// repr get the string representation of the node recursively
func (n *Node) repr(level int) string {
	// Don't wrap with parentheses when it's a leaf node
	prefix := strings.Repeat(" ", level*2)
	if level != 0 {
		prefix = "\n" + prefix
	}

	if n.Children == nil {
		return prefix + n.Symbol
	}

	childrenReprs := []string{}
	for _, child := range n.Children {
		childrenReprs = append(childrenReprs, child.repr(level+1))
	}
	return fmt.Sprintf("%s(%s%s)", prefix, n.Symbol, strings.Join(childrenReprs, ""))
}
