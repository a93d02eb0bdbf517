// Package table reads lexicon tables. A table has a tag column and a words
// column holding a comma separated list of words; each row becomes one
// lexical rule.
package table

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ling0322/cfgparse"
)

// Options selects the sheet and the columns of a table
type Options struct {
	// Sheet of a workbook, the first sheet when empty
	Sheet string

	// Header names of the columns, matched ignoring case
	TagColumn   string
	WordsColumn string
}

func (o Options) withDefaults() Options {
	if o.TagColumn == "" {
		o.TagColumn = "Tag"
	}
	if o.WordsColumn == "" {
		o.WordsColumn = "lexicon"
	}
	return o
}

// Read reads the lexicon at path. .xlsx files are read as workbooks, .csv
// files as CSV tables and anything else as a rules file written by
// cfgparse.WriteLexicon
func Read(path string, opts Options) (*cfgparse.Lexicon, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rules, err := ReadXLSX(path, opts)
		if err != nil {
			return nil, err
		}
		return cfgparse.NewLexicon(rules...), nil

	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "read lexicon table")
		}
		defer f.Close()

		rules, err := ReadCSV(f, opts)
		if err != nil {
			return nil, err
		}
		return cfgparse.NewLexicon(rules...), nil

	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "read lexicon rules")
		}
		defer f.Close()
		return cfgparse.ReadLexicon(f)
	}
}

// ReadXLSX reads the lexical rules of a sheet of an Excel workbook
func ReadXLSX(path string, opts Options) ([]*cfgparse.LexicalRule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	return fromRows(rows, opts)
}

// ReadCSV reads the lexical rules of a CSV table
func ReadCSV(r io.Reader, opts Options) ([]*cfgparse.LexicalRule, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read CSV table")
	}
	return fromRows(rows, opts)
}

// fromRows converts table rows, the first one being the header. Rows without
// a valid tag or without words are skipped
func fromRows(rows [][]string, opts Options) ([]*cfgparse.LexicalRule, error) {
	opts = opts.withDefaults()
	if len(rows) == 0 {
		return nil, errors.New("lexicon table: no header row")
	}

	tagIndex, wordsIndex := -1, -1
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, opts.TagColumn):
			tagIndex = i
		case strings.EqualFold(name, opts.WordsColumn):
			wordsIndex = i
		}
	}
	if tagIndex < 0 || wordsIndex < 0 {
		return nil, errors.Errorf("lexicon table: columns %q and %q expected in header %q",
			opts.TagColumn, opts.WordsColumn, rows[0])
	}

	rules := []*cfgparse.LexicalRule{}
	for _, row := range rows[1:] {
		tag, words := cell(row, tagIndex), cell(row, wordsIndex)
		if strings.TrimSpace(tag) == "" || strings.TrimSpace(words) == "" {
			continue
		}

		rule, err := cfgparse.NewLexicalRule(cfgparse.Symbol(tag), strings.Split(words, ","))
		if errors.Is(err, cfgparse.ErrMalformedGrammar) {
			// Only separators in the words column, or a tag like "V B"
			continue
		}
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// cell returns row[i], rows may be shorter than the header
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
