package main

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/studycrossword/generator"
)

func TestParseConcepts(t *testing.T) {
	text := `[
		{"term": " Fotosyntes ", "definition": "Växter gör socker av ljus"},
		{"term": "", "definition": "tom"},
		{"term": "123", "definition": "bara siffror"},
		{"term": "Klorofyll", "definition": "Grönt färgämne"}
	]`

	concepts, err := parseConcepts(text)
	require.NoError(t, err)
	assert.Equal(t, []generator.Concept{
		{Term: "Fotosyntes", Definition: "Växter gör socker av ljus"},
		{Term: "Klorofyll", Definition: "Grönt färgämne"},
	}, concepts)
}

func TestParseConceptsErrors(t *testing.T) {
	_, err := parseConcepts("   ")
	assert.Error(t, err)

	_, err = parseConcepts("not json")
	assert.ErrorContains(t, err, "parse concepts JSON")

	_, err = parseConcepts(`[{"term": "", "definition": "x"}]`)
	assert.ErrorIs(t, err, errNoConcepts)
}

func TestConceptPromptUsesGridSize(t *testing.T) {
	g := &GeminiClient{maxLetters: 10}
	prompt := g.prompt("Cellen", "Swedish", 8)

	assert.Contains(t, prompt, "Topic: Cellen")
	assert.Contains(t, prompt, "List the 8 most important terms")
	assert.Contains(t, prompt, "Write terms and clues in Swedish.")
	assert.Contains(t, prompt, "at most 10 letters long")
	assert.NotContains(t, prompt, "at most 20 letters")
}

func TestGenerateConcepts(t *testing.T) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		t.Skip("GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewGeminiClient(ctx, projectID, "", "", 0)
	require.NoError(t, err)
	defer client.Close()

	concepts, err := client.GenerateConcepts(ctx, "Fotosyntes", "Swedish", 10)
	require.NoError(t, err)
	require.NotEmpty(t, concepts)

	puzzle := generator.Generate(generator.SortByLength(concepts))
	require.NotNil(t, puzzle)

	out, _ := json.MarshalIndent(concepts, "", "  ")
	t.Logf("Concepts:\n%s", string(out))
	t.Logf("Puzzle:\n%s", puzzle)
}
