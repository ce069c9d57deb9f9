package orselect

// Requirements describes selection criteria. Nil numeric bounds and empty
// sets impose no constraint. PreferUnmoderated is a soft ranking
// preference, not a filter: moderated models still qualify, they just sort
// after unmoderated ones.
type Requirements struct {
	MaxCostPerToken   *float64
	MinContextLength  *int
	RequiredFeatures  []string
	InputModalities   []string
	OutputModalities  []string
	PreferUnmoderated bool
	ExcludeModels     []string
}

// Validate checks the requirement bounds.
func (r *Requirements) Validate() error {
	if r.MaxCostPerToken != nil && *r.MaxCostPerToken < 0 {
		return validationErrorf("requirements: max_cost_per_token %g is negative", *r.MaxCostPerToken)
	}
	if r.MinContextLength != nil && *r.MinContextLength < 0 {
		return validationErrorf("requirements: min_context_length %d is negative", *r.MinContextLength)
	}
	for field, set := range map[string][]string{
		"required_features": r.RequiredFeatures,
		"input_modalities":  r.InputModalities,
		"output_modalities": r.OutputModalities,
		"exclude_models":    r.ExcludeModels,
	} {
		for _, v := range set {
			if v == "" {
				return validationErrorf("requirements: %s contains an empty entry", field)
			}
		}
	}
	return nil
}

// Float returns a pointer to v, for use as an optional cost bound.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for use as an optional context bound.
func Int(v int) *int { return &v }
