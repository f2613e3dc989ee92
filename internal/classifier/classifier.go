// Package classifier loads the persisted URL classification model and
// assigns a topical category to each visit URL. The model is treated as an
// opaque artifact: a list of ordered substring rules exported from the
// trained 8-class model, plus a default class.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrModelNotFound means the persisted model artifact is absent. The server
// keeps running; classify endpoints report the model as unavailable.
var ErrModelNotFound = errors.New("classification model not found")

// Classifier assigns one category string per URL.
type Classifier interface {
	Predict(urls []string) ([]string, error)
}

type rule struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

type artifact struct {
	Classes []string `json:"classes"`
	Rules   []rule   `json:"rules"`
	Default string   `json:"default"`
}

// Model is the artifact-backed classifier implementation.
type Model struct {
	classes  []string
	rules    []rule
	fallback string
}

// Load reads the model artifact from disk.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if a.Default == "" {
		return nil, fmt.Errorf("parse model %s: missing default class", path)
	}
	return &Model{classes: a.Classes, rules: a.Rules, fallback: a.Default}, nil
}

// Classes returns the closed set of labels the model can produce.
func (m *Model) Classes() []string { return m.classes }

// Predict assigns a category per URL: first matching substring rule wins,
// otherwise the model default.
func (m *Model) Predict(urls []string) ([]string, error) {
	out := make([]string, len(urls))
	for i, u := range urls {
		lower := strings.ToLower(u)
		out[i] = m.fallback
		for _, r := range m.rules {
			if strings.Contains(lower, r.Pattern) {
				out[i] = r.Category
				break
			}
		}
	}
	return out, nil
}
