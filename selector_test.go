package orselect

import (
	"errors"
	"reflect"
	"testing"
)

func testModel(id string, promptCost float64, contextLen int, params []string) Model {
	return Model{
		ID:               id,
		Name:             "Model " + id,
		ContextLength:    contextLen,
		Pricing:          Pricing{PromptCostPerToken: promptCost, CompletionCostPerToken: promptCost},
		SupportedParams:  params,
		InputModalities:  []string{"text"},
		OutputModalities: []string{"text"},
	}
}

func ids(models []Model) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.ID
	}
	return out
}

func TestSelectUnboundedReturnsFullRankedSnapshot(t *testing.T) {
	snapshot := []Model{
		testModel("c", 0.00003, 8000, nil),
		testModel("a", 0.00001, 8000, nil),
		testModel("b", 0.00002, 8000, nil),
	}

	got, err := Select(snapshot, &Requirements{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}

	capped, err := Select(snapshot, &Requirements{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(capped) != 2 {
		t.Errorf("limit 2 returned %d models", len(capped))
	}
}

func TestSelectCostFilterExcludesExpensiveModels(t *testing.T) {
	snapshot := []Model{
		testModel("cheap", 0.000001, 8000, nil),
		testModel("pricey", 0.0001, 8000, nil),
	}

	got, err := Select(snapshot, &Requirements{MaxCostPerToken: Float(0.00001)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range got {
		if m.ID == "pricey" {
			t.Error("model above the cost bound appeared in the result")
		}
	}
	if len(got) != 1 || got[0].ID != "cheap" {
		t.Errorf("got %v, want [cheap]", ids(got))
	}
}

func TestSelectCostAndContextScenario(t *testing.T) {
	// Only "b" satisfies both the cost ceiling and the context floor.
	snapshot := []Model{
		{ID: "a", Name: "A", ContextLength: 4000, Pricing: Pricing{PromptCostPerToken: 0.00002}},
		{ID: "b", Name: "B", ContextLength: 9000, Pricing: Pricing{PromptCostPerToken: 0.000005}, SupportedParams: []string{"tools"}},
	}
	req := &Requirements{
		MaxCostPerToken:  Float(0.00001),
		MinContextLength: Int(8000),
	}

	best, ok, err := SelectOne(snapshot, req)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || best.ID != "b" {
		t.Errorf("got (%q, %v), want (b, true)", best.ID, ok)
	}
}

func TestSelectRequiredFeatureWithNoMatch(t *testing.T) {
	snapshot := []Model{
		testModel("a", 0.00001, 8000, []string{"temperature"}),
		testModel("b", 0.00002, 8000, []string{"top_p"}),
	}
	req := &Requirements{RequiredFeatures: []string{"tools"}}

	_, ok, err := SelectOne(snapshot, req)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no match")
	}

	many, err := Select(snapshot, req, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(many) != 0 {
		t.Errorf("expected empty result, got %v", ids(many))
	}
}

func TestSelectEqualCostPrefersLargerContext(t *testing.T) {
	snapshot := []Model{
		testModel("small", 0.00001, 4000, nil),
		testModel("large", 0.00001, 16000, nil),
	}

	got, err := Select(snapshot, &Requirements{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"large", "small"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestSelectModerationIsSoftPreference(t *testing.T) {
	moderated := testModel("moderated-cheap", 0.00001, 8000, nil)
	moderated.Moderated = true
	unmoderated := testModel("unmoderated-pricier", 0.00002, 8000, nil)

	snapshot := []Model{moderated, unmoderated}

	// Without the preference, cost decides.
	got, err := Select(snapshot, &Requirements{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ID != "moderated-cheap" {
		t.Errorf("got %v first, want moderated-cheap", got[0].ID)
	}

	// With the preference, unmoderated sorts first but moderated stays in.
	got, err = Select(snapshot, &Requirements{PreferUnmoderated: true}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"unmoderated-pricier", "moderated-cheap"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestSelectModalitySubsetFilter(t *testing.T) {
	textOnly := testModel("text-only", 0.00001, 8000, nil)
	vision := testModel("vision", 0.00002, 8000, nil)
	vision.InputModalities = []string{"text", "image"}

	got, err := Select([]Model{textOnly, vision}, &Requirements{InputModalities: []string{"text", "image"}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "vision" {
		t.Errorf("got %v, want [vision]", ids(got))
	}
}

func TestSelectExcludeModels(t *testing.T) {
	snapshot := []Model{
		testModel("openrouter/auto", 0, 8000, nil),
		testModel("real-model", 0.00001, 8000, nil),
	}

	got, err := Select(snapshot, &Requirements{ExcludeModels: []string{"openrouter/auto"}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "real-model" {
		t.Errorf("got %v, want [real-model]", ids(got))
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	snapshot := []Model{
		testModel("b", 0.00001, 8000, nil),
		testModel("a", 0.00001, 8000, nil),
		testModel("c", 0.00001, 8000, nil),
	}
	req := &Requirements{}

	first, err := Select(snapshot, req, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Equal cost and context fall through to the ID tie-break.
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids(first), want) {
		t.Errorf("got %v, want %v", ids(first), want)
	}

	for i := 0; i < 5; i++ {
		again, err := Select(snapshot, req, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(ids(first), ids(again)) {
			t.Fatalf("run %d differed: %v vs %v", i, ids(first), ids(again))
		}
	}
}

func TestSelectRejectsInvalidRequirements(t *testing.T) {
	snapshot := []Model{testModel("a", 0.00001, 8000, nil)}

	_, err := Select(snapshot, &Requirements{MaxCostPerToken: Float(-1)}, 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
