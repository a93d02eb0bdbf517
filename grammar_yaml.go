package cfgparse

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// grammarDocument is the YAML form of a grammar:
//
//	start: S
//	rules:
//	  - S -> NP VP
//	  - NP -> AdjP N | N
//	lexicon:
//	  NNS: [novels, books]
//	  JJ: historical, old
type grammarDocument struct {
	Start   string    `yaml:"start"`
	Rules   []string  `yaml:"rules"`
	Lexicon yaml.Node `yaml:"lexicon"`
}

// ParseGrammarYAML parses a grammar in YAML form. The lexicon is a mapping
// whose order is kept, values are either a list of words or a comma
// separated string
func ParseGrammarYAML(data []byte) (*Grammar, error) {
	var doc grammarDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "ParseGrammarYAML")
	}

	rules := []*Rule{}
	for i, text := range doc.Rules {
		parsed, err := ParseRule(text)
		if err != nil {
			return nil, errors.Wrapf(err, "ParseGrammarYAML: rules[%d]", i)
		}
		rules = append(rules, parsed...)
	}

	lexicon, err := decodeLexiconNode(&doc.Lexicon)
	if err != nil {
		return nil, err
	}

	start := Symbol(strings.TrimSpace(doc.Start))
	if start != "" && !start.IsValid() {
		return nil, errors.Errorf("ParseGrammarYAML: unexpected start symbol '%s'", start)
	}
	return NewGrammar(start, rules, lexicon), nil
}

func decodeLexiconNode(node *yaml.Node) (*Lexicon, error) {
	lexicon := NewLexicon()
	if node.Kind == 0 || node.Tag == "!!null" {
		// No lexicon section
		return lexicon, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.Errorf("ParseGrammarYAML: line %d: lexicon must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		// Entries without words are dropped
		if value.Tag == "!!null" || (value.Kind == yaml.ScalarNode && strings.TrimSpace(value.Value) == "") {
			continue
		}

		var words []string
		switch value.Kind {
		case yaml.ScalarNode:
			words = strings.Split(value.Value, ",")
		case yaml.SequenceNode:
			if err := value.Decode(&words); err != nil {
				return nil, errors.Wrapf(err, "ParseGrammarYAML: lexicon '%s'", key.Value)
			}
		default:
			return nil, errors.Errorf("ParseGrammarYAML: line %d: unexpected words for '%s'", value.Line, key.Value)
		}

		rule, err := NewLexicalRule(Symbol(key.Value), words)
		if err != nil {
			return nil, errors.Wrapf(err, "ParseGrammarYAML: line %d", key.Line)
		}
		lexicon.Add(rule)
	}
	return lexicon, nil
}
