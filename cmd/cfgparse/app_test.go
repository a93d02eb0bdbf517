package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	grammarPath = "testdata/grammar.yaml"
	lexiconPath = "testdata/lexicon.csv"
)

// execute runs the root command with args and returns stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "",
		"--grammar", grammarPath, "--lexicon", lexiconPath, "--log-level", "error",
		"parse",
		"when did you come here lastly",
		"I enjoy historical novels",
		"do not listen to loud music",
		"I helped my mother with dinner yesterday",
		"will you attend the meeting tonight",
		"novels enjoy I historical")
	require.NoError(t, err)

	expected := "accepted\twhen did you come here lastly\n" +
		"accepted\tI enjoy historical novels\n" +
		"accepted\tdo not listen to loud music\n" +
		"accepted\tI helped my mother with dinner yesterday\n" +
		"accepted\twill you attend the meeting tonight\n" +
		"rejected\tnovels enjoy I historical\n"
	assert.Equal(t, expected, out)
}

func TestParseCommandStdin(t *testing.T) {
	out, err := execute(t, "you and I enjoy music\n\n  novels I  \n",
		"-g", grammarPath, "-l", lexiconPath, "--log-level", "error",
		"parse", "--tree", "--chart")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "accepted\tyou and I enjoy music", lines[0])
	assert.Contains(t, out, "rejected\tnovels I\n")
	assert.Contains(t, out, "(S (NP (NP you) (CC and) (NP I)) (VP (V enjoy) (NP music)))")
}

func TestCNFCommand(t *testing.T) {
	out, err := execute(t, "", "-g", grammarPath, "-l", lexiconPath, "--log-level", "error", "cnf")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 96)
	assert.Equal(t, "S -> NP VP", lines[0])
	assert.Equal(t, "S -> X1 AdvP", lines[1])
	assert.Equal(t, "X23 -> V NP", lines[len(lines)-1])
	assert.Contains(t, lines, "WRB -> when")
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "", "-g", grammarPath, "-l", lexiconPath, "rules")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "S -> NP VP\nS -> VP\n"))
	assert.Contains(t, out, "\n\nPRP -> I | you\n")
	assert.NotContains(t, out, "VB_int ->")
}

func TestLexiconExportCommand(t *testing.T) {
	dir := t.TempDir()
	rulesFile := filepath.Join(dir, "cfg_lexicon_rules.txt")

	_, err := execute(t, "", "-l", lexiconPath, "--log-level", "error", "lexicon", "export", "-o", rulesFile)
	require.NoError(t, err)

	data, err := os.ReadFile(rulesFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "PRP -> I | you\nDT -> the | my\n"))

	// The rules file can replace the table
	out, err := execute(t, "", "-g", grammarPath, "-l", rulesFile, "--log-level", "error",
		"parse", "I enjoy historical novels")
	require.NoError(t, err)
	assert.Equal(t, "accepted\tI enjoy historical novels\n", out)

	out, err = execute(t, "", "-l", lexiconPath, "lexicon", "export", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, string(data), out)

	_, err = execute(t, "", "lexicon", "export")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "", "-g", grammarPath, "-l", lexiconPath, "check")
	require.NoError(t, err)
	assert.Equal(t, "dropped unit rule: V -> VB_int\n"+
		"dropped unit chain: S -> VP -> V\n"+
		"dropped unit chain: VP -> V -> VB_int\n"+
		"undefined symbol: VB_int\n", out)

	// One hop only: "come" is a VP but not a sentence
	out, err = execute(t, "", "-g", grammarPath, "-l", lexiconPath, "--log-level", "error",
		"parse", "come")
	require.NoError(t, err)
	assert.Equal(t, "rejected\tcome\n", out)

	dir := t.TempDir()
	cyclic := filepath.Join(dir, "cyclic.cfg")
	require.NoError(t, os.WriteFile(cyclic, []byte("S -> A\nA -> S\n"), 0o644))

	out, err = execute(t, "", "-g", cyclic, "check")
	require.Error(t, err)
	assert.Contains(t, out, "unit cycle: A S\n")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	grammar, err := filepath.Abs(grammarPath)
	require.NoError(t, err)
	lexicon, err := filepath.Abs(lexiconPath)
	require.NoError(t, err)

	configPath := filepath.Join(dir, "cfgparse.toml")
	content := "grammar = " + quote(grammar) + "\n" +
		"start = \"VP\"\n" +
		"log_level = \"error\"\n" +
		"[lexicon]\npath = " + quote(lexicon) + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	out, err := execute(t, "", "--config", configPath, "parse", "enjoy historical novels", "I enjoy novels")
	require.NoError(t, err)
	assert.Equal(t, "accepted\tenjoy historical novels\nrejected\tI enjoy novels\n", out)

	// Flags override the config file
	out, err = execute(t, "", "--config", configPath, "--start", "S", "parse", "I enjoy novels")
	require.NoError(t, err)
	assert.Equal(t, "accepted\tI enjoy novels\n", out)

	_, err = execute(t, "", "--config", filepath.Join(dir, "missing.toml"), "parse", "I")
	assert.Error(t, err)
}

func TestMissingGrammar(t *testing.T) {
	_, err := execute(t, "", "parse", "I enjoy novels")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no grammar file")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "cfgparse version "+Version+"\n", out)
}

func quote(s string) string {
	return "'" + s + "'"
}
