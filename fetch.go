package orselect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/orselect/orselect/internal/httpclient"
)

// DefaultBaseURL is the OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Fetcher retrieves the model catalog from the upstream aggregator.
type Fetcher struct {
	baseURL       string
	hasCredential bool
	client        *httpclient.Client
	log           *slog.Logger
}

// NewFetcher creates a fetcher bound to baseURL. The credential itself
// lives in the HTTP client's transport; hasCredential only records whether
// one was configured so its absence can be reported at first use.
func NewFetcher(baseURL string, hasCredential bool, client *httpclient.Client, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		baseURL:       baseURL,
		hasCredential: hasCredential,
		client:        client,
		log:           log,
	}
}

// Wire types for the OpenRouter /models response. Costs arrive as decimal
// strings; unknown extra fields are ignored. Descriptors stay raw in the
// envelope so one drifted record cannot fail the whole decode.
type modelsEnvelope struct {
	Data *[]json.RawMessage `json:"data"`
}

type wireModel struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Created         int64            `json:"created"`
	Description     string           `json:"description"`
	ContextLength   int              `json:"context_length"`
	Pricing         wirePricing      `json:"pricing"`
	Architecture    wireArchitecture `json:"architecture"`
	TopProvider     wireTopProvider  `json:"top_provider"`
	SupportedParams []string         `json:"supported_parameters"`
}

type wirePricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type wireArchitecture struct {
	InputModalities  []string `json:"input_modalities"`
	OutputModalities []string `json:"output_modalities"`
	Tokenizer        string   `json:"tokenizer"`
}

type wireTopProvider struct {
	IsModerated bool `json:"is_moderated"`
}

// Fetch performs one GET against the models endpoint and returns the
// validated catalog records. Records that fail validation are skipped and
// logged rather than failing the call, to tolerate upstream schema drift.
func (f *Fetcher) Fetch(ctx context.Context) ([]Model, error) {
	if !f.hasCredential {
		return nil, fmt.Errorf("%w: no API key configured (set OPENROUTER_API_KEY)", ErrAuthentication)
	}

	url := f.baseURL + "/models"
	resp, err := f.client.Get(ctx, url, map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.StatusCode >= 400 {
		return nil, classifyStatus(resp.StatusCode, string(resp.Body))
	}

	var envelope modelsEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: parsing models response: %v", ErrUpstreamFormat, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: response has no data list", ErrUpstreamFormat)
	}

	models := make([]Model, 0, len(*envelope.Data))
	skipped := 0
	for _, raw := range *envelope.Data {
		var wm wireModel
		if err := json.Unmarshal(raw, &wm); err != nil {
			f.log.Warn("skipping model record", "id", descriptorID(raw), "error", err)
			skipped++
			continue
		}
		m, err := wm.toModel()
		if err != nil {
			f.log.Warn("skipping model record", "id", wm.ID, "error", err)
			skipped++
			continue
		}
		models = append(models, m)
	}

	f.log.Info("catalog fetch complete",
		"upstream_records", len(*envelope.Data),
		"models", len(models),
		"skipped", skipped,
		"from_cache", resp.FromCache)

	return models, nil
}

// toModel converts a wire descriptor into a validated catalog record.
func (wm *wireModel) toModel() (Model, error) {
	prompt, err := parseCost(wm.Pricing.Prompt, "prompt")
	if err != nil {
		return Model{}, err
	}
	completion, err := parseCost(wm.Pricing.Completion, "completion")
	if err != nil {
		return Model{}, err
	}

	m := Model{
		ID:               wm.ID,
		Name:             wm.Name,
		Description:      wm.Description,
		Created:          wm.Created,
		ContextLength:    wm.ContextLength,
		Pricing:          Pricing{PromptCostPerToken: prompt, CompletionCostPerToken: completion},
		SupportedParams:  wm.SupportedParams,
		InputModalities:  wm.Architecture.InputModalities,
		OutputModalities: wm.Architecture.OutputModalities,
		Tokenizer:        wm.Architecture.Tokenizer,
		Moderated:        wm.TopProvider.IsModerated,
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// descriptorID extracts the id of an otherwise undecodable descriptor so
// the skip log can name it.
func descriptorID(raw json.RawMessage) string {
	var d struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &d); err != nil || d.ID == "" {
		return "unknown"
	}
	return d.ID
}

// parseCost parses an upstream decimal-string cost. An absent field
// decodes as the empty string and counts as zero cost, matching upstream
// behavior for free models.
func parseCost(s, field string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, validationErrorf("pricing.%s %q is not a decimal", field, s)
	}
	return v, nil
}
