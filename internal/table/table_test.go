package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ling0322/cfgparse"
)

const sampleCSV = `Tag,lexicon,note
PRP,"I, you, he",pronouns
NNS,"novels,books"
JJ,,adjectives are missing
VB,enjoy
,orphan
RB, ,
V B,run
NN|NNS,dog
`

func TestReadCSV(t *testing.T) {
	rules, err := ReadCSV(strings.NewReader(sampleCSV), Options{})
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "PRP -> I | you | he", rules[0].String())
	assert.Equal(t, "NNS -> novels | books", rules[1].String())
	assert.Equal(t, "VB -> enjoy", rules[2].String())

	// What is read can be written to a rules file and read back
	var buf strings.Builder
	require.NoError(t, cfgparse.WriteLexicon(&buf, cfgparse.NewLexicon(rules...)))
	lexicon, err := cfgparse.ReadLexicon(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, []cfgparse.Symbol{"PRP", "NNS", "VB"}, lexicon.Tags())
}

func TestReadCSVColumns(t *testing.T) {
	text := "words;pos\n"
	_, err := ReadCSV(strings.NewReader(text), Options{})
	require.Error(t, err)

	text = "Words,POS\n\"dog, cat\",NN\n"
	rules, err := ReadCSV(strings.NewReader(text), Options{TagColumn: "pos", WordsColumn: "words"})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "NN -> dog | cat", rules[0].String())

	_, err = ReadCSV(strings.NewReader(""), Options{})
	require.Error(t, err)
}

func writeWorkbook(t *testing.T, path, sheet string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		for j, value := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.xlsx")
	writeWorkbook(t, path, "Sheet1", [][]string{
		{"Tag", "lexicon"},
		{"WRB", "when, where"},
		{"JJ", ""},
		{"VBD", "came,went"},
	})

	rules, err := ReadXLSX(path, Options{})
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "WRB -> when | where", rules[0].String())
	assert.Equal(t, "VBD -> came | went", rules[1].String())

	_, err = ReadXLSX(path, Options{Sheet: "Missing"})
	require.Error(t, err)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	xlsxPath := filepath.Join(dir, "lexicon.xlsx")
	writeWorkbook(t, xlsxPath, "Sheet1", [][]string{{"Tag", "lexicon"}, {"NN", "dog"}})
	csvPath := filepath.Join(dir, "lexicon.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Tag,lexicon\nNN,dog\n"), 0o644))
	rulesPath := filepath.Join(dir, "rules.txt")
	require.NoError(t, os.WriteFile(rulesPath, []byte("NN -> dog\n"), 0o644))

	for _, path := range []string{xlsxPath, csvPath, rulesPath} {
		lexicon, err := Read(path, Options{})
		require.NoError(t, err, path)
		assert.Equal(t, []cfgparse.Symbol{"NN"}, lexicon.Tags(), path)
		assert.Equal(t, []string{"dog"}, lexicon.Words("NN"), path)
	}

	_, err := Read(filepath.Join(dir, "missing.csv"), Options{})
	require.Error(t, err)
}
