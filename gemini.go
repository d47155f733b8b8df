package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bodul/studycrossword/generator"
)

// ConceptSource supplies ranked term/definition pairs for a topic.
type ConceptSource interface {
	GenerateConcepts(ctx context.Context, topic, language string, count int) ([]generator.Concept, error)
}

const conceptPrompt = `You write study crosswords.

Topic: %s

List the %d most important terms for this topic with a short clue for each,
as a JSON array:
[
  {"term": "Term", "definition": "Clue"},
  ...
]

Rules:
- Write terms and clues in %s.
- A term is a single word made of letters only, at most %d letters long.
- A clue is at most 12 words and never contains its term.
- Order the array from most to least important term.
- Reply ONLY with the JSON, without commentary or markdown.`

var conceptSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"term":       {Type: genai.TypeString},
			"definition": {Type: genai.TypeString},
		},
		Required: []string{"term", "definition"},
	},
}

// GenerateConcepts asks Gemini for count concepts about topic.
func (g *GeminiClient) GenerateConcepts(ctx context.Context, topic, language string, count int) ([]generator.Concept, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: g.prompt(topic, language, count)}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.4)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
			ResponseSchema:   conceptSchema,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	return parseConcepts(resp.Text())
}

// prompt fills conceptPrompt, asking for terms that fit the generator's grid.
func (g *GeminiClient) prompt(topic, language string, count int) string {
	return fmt.Sprintf(conceptPrompt, topic, count, language, g.maxLetters)
}

var errNoConcepts = errors.New("no usable concepts in response")

// parseConcepts decodes a model reply and drops entries without a term.
func parseConcepts(text string) ([]generator.Concept, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	var raw []generator.Concept
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse concepts JSON: %w\nraw response: %s", err, text)
	}

	concepts := raw[:0]
	for _, c := range raw {
		c.Term = strings.TrimSpace(c.Term)
		c.Definition = strings.TrimSpace(c.Definition)
		if len(generator.NormalizeTerm(c.Term)) == 0 {
			continue
		}
		concepts = append(concepts, c)
	}
	if len(concepts) == 0 {
		return nil, errNoConcepts
	}
	return concepts, nil
}
