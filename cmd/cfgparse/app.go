package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ling0322/cfgparse"
	"github.com/ling0322/cfgparse/internal/config"
	"github.com/ling0322/cfgparse/internal/table"
)

// app holds the global flags and what is loaded from them
type app struct {
	configPath  string
	grammarPath string
	lexiconPath string
	start       string
	logLevel    string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "CNF conversion and CKY parsing of context-free grammars",
		Long: `cfgparse reads a context-free grammar and a lexicon, converts them to
Chomsky normal form and tells for each sentence whether it derives from
the start symbol.

The lexicon is read from an Excel workbook, a CSV table or a rules file
with one "TAG -> word | word" rule per line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (TOML)")
	flags.StringVarP(&a.grammarPath, "grammar", "g", "", "Grammar file (text or YAML)")
	flags.StringVarP(&a.lexiconPath, "lexicon", "l", "", "Lexicon file (.xlsx, .csv or rules file)")
	flags.StringVarP(&a.start, "start", "s", "", "Start symbol, overrides the grammar file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		a.parseCmd(),
		a.cnfCmd(),
		a.rulesCmd(),
		a.lexiconCmd(),
		a.checkCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// setup loads the config file and applies the flags on top of it
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if a.grammarPath != "" {
		cfg.Grammar = a.grammarPath
	}
	if a.lexiconPath != "" {
		cfg.Lexicon.Path = a.lexiconPath
	}
	if a.start != "" {
		cfg.Start = a.start
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToLower(a.logLevel)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) tableOptions() table.Options {
	return table.Options{
		Sheet:       a.cfg.Lexicon.Sheet,
		TagColumn:   a.cfg.Lexicon.TagColumn,
		WordsColumn: a.cfg.Lexicon.WordsColumn,
	}
}

// loadGrammar reads the grammar file and adds the lexicon to it
func (a *app) loadGrammar() (*cfgparse.Grammar, error) {
	if a.cfg.Grammar == "" {
		return nil, errors.New("no grammar file, use --grammar or set grammar in the config file")
	}
	grammar, err := cfgparse.LoadGrammar(a.cfg.Grammar)
	if err != nil {
		return nil, err
	}
	if a.cfg.Start != "" {
		grammar.Start = cfgparse.Symbol(a.cfg.Start)
	}

	if a.cfg.Lexicon.Path != "" {
		lexicon, err := table.Read(a.cfg.Lexicon.Path, a.tableOptions())
		if err != nil {
			return nil, err
		}
		grammar.Lexicon.Merge(lexicon)
	}

	a.logger.Debug("grammar loaded",
		"path", a.cfg.Grammar,
		"start", grammar.Start,
		"rules", len(grammar.Rules),
		"lexicon", grammar.Lexicon.Len())
	return grammar, nil
}

func (a *app) newParser() (*cfgparse.Parser, error) {
	grammar, err := a.loadGrammar()
	if err != nil {
		return nil, err
	}
	return cfgparse.NewParser(grammar, cfgparse.WithLogger(a.logger))
}

func (a *app) parseCmd() *cobra.Command {
	var (
		showChart bool
		showTree  bool
	)

	cmd := &cobra.Command{
		Use:   "parse [sentence ...]",
		Short: "Recognize sentences, read from stdin when no sentence is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := a.newParser()
			if err != nil {
				return err
			}

			sentences := args
			if len(sentences) == 0 {
				sentences, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			accepted := 0
			for _, sentence := range sentences {
				chart := parser.Parse(cfgparse.Tokenize(sentence))
				verdict := "rejected"
				if chart.Accepts(parser.Start()) {
					verdict = "accepted"
					accepted++
				}
				fmt.Fprintf(out, "%s\t%s\n", verdict, strings.Join(chart.Tokens(), " "))

				if showChart {
					fmt.Fprint(out, chart.String())
				}
				if showTree {
					if tree := chart.Tree(parser.Start()); tree != nil {
						fmt.Fprintln(out, tree.String())
					}
				}
			}

			a.logger.Info("sentences parsed", "total", len(sentences), "accepted", accepted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showChart, "chart", false, "Print the CKY chart of each sentence")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print a derivation of each accepted sentence")
	return cmd
}

func (a *app) cnfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cnf",
		Short: "Print the grammar in Chomsky normal form",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := a.newParser()
			if err != nil {
				return err
			}
			return parser.CNF().Write(cmd.OutOrStdout())
		},
	}
}

func (a *app) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the grammar rules and the lexical rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := a.loadGrammar()
			if err != nil {
				return err
			}
			return grammar.Write(cmd.OutOrStdout())
		},
	}
}

func (a *app) lexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Lexicon commands",
	}

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the lexicon as a rules file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Lexicon.Path == "" {
				return errors.New("no lexicon file, use --lexicon or set lexicon.path in the config file")
			}
			lexicon, err := table.Read(a.cfg.Lexicon.Path, a.tableOptions())
			if err != nil {
				return err
			}

			if out == "-" {
				return cfgparse.WriteLexicon(cmd.OutOrStdout(), lexicon)
			}
			if out == "" {
				out = a.cfg.Lexicon.RulesFile
			}
			if err := writeLexiconFile(out, lexicon); err != nil {
				return err
			}
			a.logger.Info("lexicon rules saved", "path", out, "rules", lexicon.Len())
			return nil
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", "Output rules file, '-' for stdout (default from config)")

	cmd.AddCommand(export)
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report unit cycles, dropped unit rules and undefined symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := a.loadGrammar()
			if err != nil {
				return err
			}
			report, err := cfgparse.Check(grammar, cfgparse.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if err := report.Write(cmd.OutOrStdout()); err != nil {
				return err
			}
			if !report.OK() {
				return errors.Errorf("grammar has %d unit cycle(s)", len(report.UnitCycles))
			}
			return nil
		},
	}
}

func writeLexiconFile(path string, lexicon *cfgparse.Lexicon) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create rules file")
	}
	if err := cfgparse.WriteLexicon(f, lexicon); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close rules file")
}

// readLines returns the non-blank lines of r
func readLines(r io.Reader) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, errors.Wrap(scanner.Err(), "read sentences")
}
