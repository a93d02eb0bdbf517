package cfgparse

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// LexicalRule maps a tag to the words it can produce: TAG -> w1 | w2 | ...
type LexicalRule struct {
	Tag   Symbol
	Words []string
}

// NewLexicalRule creates a lexical rule. Words are trimmed and empty words
// are removed. A rule without any word left, or with a tag that can't be
// written in the rules file, is malformed
func NewLexicalRule(tag Symbol, words []string) (*LexicalRule, error) {
	tag = Symbol(strings.TrimSpace(string(tag)))
	if tag == "" {
		return nil, errors.Wrap(ErrMalformedGrammar, "NewLexicalRule: empty tag")
	}
	if !tag.IsValid() {
		return nil, errors.Wrapf(ErrMalformedGrammar, "NewLexicalRule: invalid tag '%s'", tag)
	}

	trimmed := make([]string, 0, len(words))
	for _, word := range words {
		if word = strings.TrimSpace(word); word != "" {
			trimmed = append(trimmed, word)
		}
	}
	if len(trimmed) == 0 {
		return nil, errors.Wrapf(ErrMalformedGrammar, "NewLexicalRule: '%s' has no words", tag)
	}
	return &LexicalRule{Tag: tag, Words: trimmed}, nil
}

// String converts the lexical rule to the line format of the rules file
func (r *LexicalRule) String() string {
	return string(r.Tag) + " " + ruleArrow + " " + strings.Join(r.Words, " | ")
}

// Lexicon is an ordered mapping from tag to words
type Lexicon struct {
	tags  []Symbol
	words map[Symbol][]string
}

// NewLexicon creates a lexicon from lexical rules, in order
func NewLexicon(rules ...*LexicalRule) *Lexicon {
	lexicon := &Lexicon{words: map[Symbol][]string{}}
	for _, rule := range rules {
		lexicon.Add(rule)
	}
	return lexicon
}

// Add adds a lexical rule. When the tag already exists its words are
// replaced and the tag keeps its position
func (l *Lexicon) Add(rule *LexicalRule) {
	if _, ok := l.words[rule.Tag]; !ok {
		l.tags = append(l.tags, rule.Tag)
	}
	l.words[rule.Tag] = append([]string(nil), rule.Words...)
}

// Merge adds every entry of other into l
func (l *Lexicon) Merge(other *Lexicon) {
	if other == nil {
		return
	}
	for _, rule := range other.Rules() {
		l.Add(rule)
	}
}

// Has returns whether tag is in the lexicon
func (l *Lexicon) Has(tag Symbol) bool {
	if l == nil {
		return false
	}
	_, ok := l.words[tag]
	return ok
}

// Words returns the words of tag, nil if tag is not in the lexicon
func (l *Lexicon) Words(tag Symbol) []string {
	if l == nil {
		return nil
	}
	return l.words[tag]
}

// Tags returns the tags in insertion order
func (l *Lexicon) Tags() []Symbol {
	if l == nil {
		return nil
	}
	return append([]Symbol(nil), l.tags...)
}

// Len returns the number of tags
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tags)
}

// Rules returns the lexicon as lexical rules, in insertion order
func (l *Lexicon) Rules() []*LexicalRule {
	rules := make([]*LexicalRule, 0, l.Len())
	for _, tag := range l.Tags() {
		rules = append(rules, &LexicalRule{
			Tag:   tag,
			Words: append([]string(nil), l.words[tag]...),
		})
	}
	return rules
}

// WriteLexicon writes the lexicon in the rules file format, one lexical rule
// per line
func WriteLexicon(w io.Writer, lexicon *Lexicon) error {
	bw := bufio.NewWriter(w)
	for _, rule := range lexicon.Rules() {
		if _, err := bw.WriteString(rule.String() + "\n"); err != nil {
			return errors.Wrap(err, "write lexicon")
		}
	}
	return errors.Wrap(bw.Flush(), "write lexicon")
}

// ReadLexicon reads a lexicon written by WriteLexicon. Blank lines are
// skipped
func ReadLexicon(r io.Reader) (*Lexicon, error) {
	lexicon := NewLexicon()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rule, err := ParseLexicalRule(line)
		if err != nil {
			return nil, errors.Wrapf(err, "ReadLexicon: line %d", lineNo)
		}
		lexicon.Add(rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read lexicon")
	}
	return lexicon, nil
}

// ParseLexicalRule parses a single line like "NN -> dog | cat"
func ParseLexicalRule(line string) (*LexicalRule, error) {
	head, body, ok := strings.Cut(line, ruleArrow)
	if !ok {
		return nil, errors.Errorf("ParseLexicalRule: missing '->' in '%s'", line)
	}
	rule, err := NewLexicalRule(Symbol(head), strings.Split(body, "|"))
	if err != nil {
		return nil, errors.Wrapf(err, "ParseLexicalRule: '%s'", line)
	}
	return rule, nil
}
