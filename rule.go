package cfgparse

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Symbol represents a symbol in a grammar rule, both terminal and
// non-terminal. Which one it is depends only on how the rules use it
type Symbol string

// ErrMalformedGrammar is returned when a rule can never be part of a grammar,
// like a production with an empty body or a lexical rule without words
var ErrMalformedGrammar = errors.New("malformed grammar")

// ruleArrow separates the head and the body of a rule in text form
const ruleArrow = "->"

var symbolPattern = regexp.MustCompile(`^[^\s|]+$`)

// IsValid checks the symbol could be written in a rule text
func (s Symbol) IsValid() bool {
	return symbolPattern.MatchString(string(s)) && !strings.Contains(string(s), ruleArrow)
}

// Rule represents a context-free production: Head -> Body[0] Body[1] ...
// Rules are values, nothing in this package modifies a Rule after it is
// created
type Rule struct {
	Head Symbol
	Body []Symbol
}

// NewRule creates a rule and checks it is well formed
func NewRule(head Symbol, body ...Symbol) (*Rule, error) {
	if head == "" {
		return nil, errors.Wrap(ErrMalformedGrammar, "NewRule: empty head")
	}
	if len(body) == 0 {
		return nil, errors.Wrapf(ErrMalformedGrammar, "NewRule: '%s' has an empty body", head)
	}
	rule := &Rule{
		Head: head,
		Body: append([]Symbol(nil), body...),
	}
	return rule, nil
}

// MustRule is like NewRule but panics when the rule is malformed. It's meant
// for grammars written in Go source
func MustRule(head Symbol, body ...Symbol) *Rule {
	rule, err := NewRule(head, body...)
	if err != nil {
		panic(err)
	}
	return rule
}

// IsUnit returns true if it's a unit production, like A -> B
func (r *Rule) IsUnit() bool {
	return len(r.Body) == 1
}

// IsBinary returns true if it's a binary rule, like A -> B C
func (r *Rule) IsBinary() bool {
	return len(r.Body) == 2
}

// IsLong returns true if the body has more than two symbols
func (r *Rule) IsLong() bool {
	return len(r.Body) > 2
}

// ParseRule parses rules from string
// The rule would be like:
//
//	VP -> V NP PP | V
//
// Then returns
//
//	[{"VP", ["V", "NP", "PP"]}, {"VP", ["V"]}]
func ParseRule(ruleText string) (rules []*Rule, err error) {
	fields := strings.Split(ruleText, ruleArrow)
	if len(fields) != 2 {
		return nil, errors.Errorf("ParseRule: unexpected number of '->' token in '%s'", ruleText)
	}

	// Left part
	head := Symbol(strings.TrimSpace(fields[0]))
	if !head.IsValid() {
		return nil, errors.Errorf("ParseRule: '%s': invalid symbol in the left", ruleText)
	}

	// Right part, alternatives are separated by '|'
	for _, alternative := range strings.Split(fields[1], "|") {
		body := []Symbol{}
		// Fields never hold spaces, '|' or '->', so body symbols are valid
		for _, field := range strings.Fields(alternative) {
			body = append(body, Symbol(field))
		}

		rule, err := NewRule(head, body...)
		if err != nil {
			return nil, errors.Wrapf(err, "ParseRule: '%s'", ruleText)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// String converts rule to string format
func (r *Rule) String() string {
	symbols := make([]string, 0, len(r.Body))
	for _, symbol := range r.Body {
		symbols = append(symbols, string(symbol))
	}
	return string(r.Head) + " " + ruleArrow + " " + strings.Join(symbols, " ")
}
