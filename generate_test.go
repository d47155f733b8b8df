package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/studycrossword/generator"
)

func runGenerate(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg := &Config{MaxGridSize: generator.DefaultMaxSize, MaxConcepts: generator.DefaultMaxConcepts}
	cmd := generateCmd(cfg)
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeConcepts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []generator.Concept
	}{
		{
			name:  "yaml",
			input: "- term: Sol\n  definition: Shines\n- term: Lampa\n  definition: Lights\n",
			want:  []generator.Concept{{Term: "Sol", Definition: "Shines"}, {Term: "Lampa", Definition: "Lights"}},
		},
		{
			name:  "json",
			input: `[{"term": "Katt", "definition": "Purrs"}]`,
			want:  []generator.Concept{{Term: "Katt", Definition: "Purrs"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeConcepts(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeConceptsInvalid(t *testing.T) {
	_, err := decodeConcepts(strings.NewReader("term: [unclosed"))
	assert.ErrorContains(t, err, "decode concepts")
}

func TestReadConceptFile(t *testing.T) {
	concepts, err := readConceptFile("testdata/concepts.yaml", nil)
	require.NoError(t, err)
	require.Len(t, concepts, 3)
	assert.Equal(t, "Lampa", concepts[0].Term)
	assert.Equal(t, "12", concepts[2].Term)

	_, err = readConceptFile("testdata/missing.yaml", nil)
	assert.ErrorContains(t, err, "open concept file")
}

func TestWritePuzzle(t *testing.T) {
	p := generator.Generate([]generator.Concept{
		{Term: "LAMPA", Definition: "Gives light"},
		{Term: "SOL", Definition: "Shines"},
	})
	require.NotNil(t, p)

	var buf bytes.Buffer
	require.NoError(t, writePuzzle(&buf, p))

	want := "5×7, 2 words\n\n" +
		"#######\n" +
		"#S#####\n" +
		"#O#####\n" +
		"#LAMPA#\n" +
		"#######\n" +
		"\nAcross\n" +
		"   1. Gives light (5)\n" +
		"\nDown\n" +
		"   2. Shines (3)\n"
	assert.Equal(t, want, buf.String())
}

func TestGenerateCommandFromFile(t *testing.T) {
	out, err := runGenerate(t, "", "-f", "testdata/concepts.yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "5×7, 2 words\n"))
	assert.Contains(t, out, "#LAMPA#")
	assert.Contains(t, out, "Shines during the day (3)")
}

func TestGenerateCommandStdinJSON(t *testing.T) {
	out, err := runGenerate(t, `[{"term":"katt","definition":"Purrs"}]`, "-f", "-", "--json")
	require.NoError(t, err)

	var p generator.Puzzle
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 3, p.Rows)
	assert.Equal(t, 6, p.Cols)
	require.Len(t, p.Words, 1)
	assert.Equal(t, "KATT", p.Words[0].Word)
}

func TestGenerateCommandReadingOrder(t *testing.T) {
	out, err := runGenerate(t, "", "-f", "testdata/concepts.yaml", "--reading-order")
	require.NoError(t, err)
	// SOL starts above LAMPA, so it takes number 1.
	assert.Contains(t, out, "Across\n   2. Gives light in the evening (5)")
	assert.Contains(t, out, "Down\n   1. Shines during the day (3)")
}

func TestGenerateCommandErrors(t *testing.T) {
	_, err := runGenerate(t, "- term: '42'\n  definition: number\n", "-f", "-")
	assert.ErrorIs(t, err, generator.ErrEmptyInput)

	_, err = runGenerate(t, "")
	assert.ErrorContains(t, err, `required flag(s) "file" not set`)

	_, err = runGenerate(t, "", "-f", "testdata/concepts.yaml", "--max-size", "1")
	assert.ErrorContains(t, err, "grid size must be at least 2")
}
