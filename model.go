package orselect

import (
	"time"
)

// Model is one entry of a catalog snapshot. Values are immutable once
// constructed; a refresh produces new Model values rather than mutating
// existing ones.
type Model struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Created          int64    `json:"created,omitempty" yaml:"created,omitempty"`
	ContextLength    int      `json:"context_length" yaml:"context_length"`
	Pricing          Pricing  `json:"pricing" yaml:"pricing"`
	SupportedParams  []string `json:"supported_parameters,omitempty" yaml:"supported_parameters,omitempty"`
	InputModalities  []string `json:"input_modalities,omitempty" yaml:"input_modalities,omitempty"`
	OutputModalities []string `json:"output_modalities,omitempty" yaml:"output_modalities,omitempty"`
	Tokenizer        string   `json:"tokenizer,omitempty" yaml:"tokenizer,omitempty"`
	Moderated        bool     `json:"moderated" yaml:"moderated"`
}

// Pricing holds per-token costs in USD.
type Pricing struct {
	PromptCostPerToken     float64 `json:"prompt_cost_per_token" yaml:"prompt_cost_per_token"`
	CompletionCostPerToken float64 `json:"completion_cost_per_token" yaml:"completion_cost_per_token"`
}

// Validate checks structural requirements for a catalog record.
func (m *Model) Validate() error {
	if m.ID == "" {
		return validationErrorf("model: id is required")
	}
	if m.Name == "" {
		return validationErrorf("model %s: name is required", m.ID)
	}
	if m.ContextLength < 0 {
		return validationErrorf("model %s: context_length %d is negative", m.ID, m.ContextLength)
	}
	if m.Pricing.PromptCostPerToken < 0 {
		return validationErrorf("model %s: prompt cost %g is negative", m.ID, m.Pricing.PromptCostPerToken)
	}
	if m.Pricing.CompletionCostPerToken < 0 {
		return validationErrorf("model %s: completion cost %g is negative", m.ID, m.Pricing.CompletionCostPerToken)
	}
	for field, set := range map[string][]string{
		"supported_parameters": m.SupportedParams,
		"input_modalities":     m.InputModalities,
		"output_modalities":    m.OutputModalities,
	} {
		for _, v := range set {
			if v == "" {
				return validationErrorf("model %s: %s contains an empty entry", m.ID, field)
			}
		}
	}
	return nil
}

// SupportsParam reports whether the model advertises the given parameter.
func (m *Model) SupportsParam(name string) bool {
	for _, p := range m.SupportedParams {
		if p == name {
			return true
		}
	}
	return false
}

// Snapshot is an immutable, timestamped copy of the upstream catalog.
// It is owned by the client's cache and replaced wholesale on refresh.
type Snapshot struct {
	Models    []Model
	FetchedAt time.Time
}

// Records returns a copy of the snapshot's model sequence so callers
// cannot mutate the cached state.
func (s *Snapshot) Records() []Model {
	out := make([]Model, len(s.Models))
	copy(out, s.Models)
	return out
}
