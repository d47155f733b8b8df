package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bodul/studycrossword/generator"
)

func generateCmd(cfg *Config) *cobra.Command {
	var (
		file     string
		asJSON   bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Lay out a crossword from a YAML or JSON concept list",
		Example: `  crossword generate -f concepts.yaml
  cat concepts.json | crossword generate -f - --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			concepts, err := readConceptFile(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			gen := cfg.Generator(newLogger(logLevel))
			puzzle, err := gen.Generate(generator.SortByLength(concepts))
			if errors.Is(err, generator.ErrEmptyInput) {
				return fmt.Errorf("no puzzle could be built from %s, add more concepts: %w", file, err)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(puzzle)
			}
			return writePuzzle(cmd.OutOrStdout(), puzzle)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Concept file, or - for stdin")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output the puzzle as JSON")
	cmd.Flags().IntVar(&cfg.MaxGridSize, "max-size", cfg.MaxGridSize, "Side of the working grid")
	cmd.Flags().IntVar(&cfg.MaxConcepts, "max-concepts", cfg.MaxConcepts, "Concepts considered per puzzle")
	cmd.Flags().BoolVar(&cfg.ReadingOrder, "reading-order", cfg.ReadingOrder, "Number clues in reading order instead of placement order")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readConceptFile(path string, stdin io.Reader) ([]generator.Concept, error) {
	if path == "-" {
		return decodeConcepts(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open concept file: %w", err)
	}
	defer f.Close()
	return decodeConcepts(f)
}

// decodeConcepts reads a YAML sequence of {term, definition}. JSON arrays are
// valid YAML and decode the same way.
func decodeConcepts(r io.Reader) ([]generator.Concept, error) {
	var concepts []generator.Concept
	if err := yaml.NewDecoder(r).Decode(&concepts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode concepts: %w", err)
	}
	return concepts, nil
}

// writePuzzle prints the solution grid followed by the clue lists.
func writePuzzle(w io.Writer, p *generator.Puzzle) error {
	if _, err := fmt.Fprintf(w, "%d×%d, %d words\n\n%s", p.Rows, p.Cols, len(p.Words), p); err != nil {
		return err
	}
	for _, section := range []struct {
		title string
		words []generator.Placement
	}{
		{"Across", p.Across()},
		{"Down", p.Down()},
	} {
		if len(section.words) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", section.title)
		for _, word := range section.words {
			fmt.Fprintf(w, "  %2d. %s (%d)\n", word.Number, word.Clue, utf8.RuneCountInString(word.Word))
		}
	}
	return nil
}
