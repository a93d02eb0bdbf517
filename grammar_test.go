package cfgparse

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGrammarText = `
# a small English grammar
%start S
S -> NP VP
NP -> N | AdjP N
; unit rules
N -> PRP | NNS
V -> VB
AdjP -> JJ
VP -> V NP
`

const sampleGrammarYAML = `
start: S
rules:
  - S -> NP VP
  - NP -> N | AdjP N
  - N -> PRP | NNS
  - V -> VB
  - AdjP -> JJ
  - VP -> V NP
lexicon:
  NNS: [novels]
  PRP: I
  VB: enjoy, like
  JJ: [historical]
  UH:
`

func TestParseGrammar(t *testing.T) {
	grammar, err := ParseGrammar(sampleGrammarText)
	require.NoError(t, err)

	assert.Equal(t, Symbol("S"), grammar.Start)
	require.Len(t, grammar.Rules, 8)
	assert.Equal(t, "NP -> N", grammar.Rules[1].String())
	assert.Equal(t, "NP -> AdjP N", grammar.Rules[2].String())
	assert.Equal(t, 0, grammar.Lexicon.Len())

	grammar, err = ParseGrammar("%start Q\nQ -> A B")
	require.NoError(t, err)
	assert.Equal(t, Symbol("Q"), grammar.Start)

	_, err = ParseGrammar("S -> NP VP\nNP NP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseGrammarYAML(t *testing.T) {
	grammar, err := ParseGrammarYAML([]byte(sampleGrammarYAML))
	require.NoError(t, err)

	assert.Equal(t, Symbol("S"), grammar.Start)
	assert.Len(t, grammar.Rules, 8)
	assert.Equal(t, []Symbol{"NNS", "PRP", "VB", "JJ"}, grammar.Lexicon.Tags())
	assert.Equal(t, []string{"enjoy", "like"}, grammar.Lexicon.Words("VB"))

	parser, err := NewParser(grammar)
	require.NoError(t, err)
	assert.True(t, parser.Recognize(Tokenize("I like historical novels")))

	_, err = ParseGrammarYAML([]byte("rules:\n  - S ->\n"))
	require.Error(t, err)

	_, err = ParseGrammarYAML([]byte("lexicon: [a, b]\n"))
	require.Error(t, err)

	grammar, err = ParseGrammarYAML([]byte("rules: [S -> A B]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStartSymbol, grammar.Start)
}

func TestLoadGrammar(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "grammar.cfg")
	yamlPath := filepath.Join(dir, "grammar.yaml")
	require.NoError(t, os.WriteFile(textPath, []byte(sampleGrammarText), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleGrammarYAML), 0o644))

	fromText, err := LoadGrammar(textPath)
	require.NoError(t, err)
	fromYAML, err := LoadGrammar(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, fromText.Rules, fromYAML.Rules)

	_, err = LoadGrammar(filepath.Join(dir, "missing.cfg"))
	require.Error(t, err)
}

func TestGrammarWrite(t *testing.T) {
	grammar := NewGrammar("", []*Rule{MustRule("S", "NP", "VP")},
		NewLexicon(&LexicalRule{Tag: "NN", Words: []string{"dog", "cat"}}))
	assert.Equal(t, DefaultStartSymbol, grammar.Start)

	var buf bytes.Buffer
	require.NoError(t, grammar.Write(&buf))
	assert.Equal(t, "S -> NP VP\n\nNN -> dog | cat\n", buf.String())
}
