package orselect

import "sort"

// qualifies applies the hard filters. Absent bounds skip their check.
func qualifies(m *Model, req *Requirements) bool {
	for _, id := range req.ExcludeModels {
		if m.ID == id {
			return false
		}
	}
	if req.MaxCostPerToken != nil && m.Pricing.PromptCostPerToken > *req.MaxCostPerToken {
		return false
	}
	if req.MinContextLength != nil && m.ContextLength < *req.MinContextLength {
		return false
	}
	for _, f := range req.RequiredFeatures {
		if !m.SupportsParam(f) {
			return false
		}
	}
	if !subset(req.InputModalities, m.InputModalities) {
		return false
	}
	if !subset(req.OutputModalities, m.OutputModalities) {
		return false
	}
	return true
}

func subset(want, have []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if w == h {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// rank orders qualifying models best-first: unmoderated before moderated
// when preferred, then cheaper prompt cost, then larger context, then ID.
// The ID tie-break makes the order a strict total order, so repeated runs
// over the same snapshot are deterministic.
func rank(models []Model, req *Requirements) {
	sort.SliceStable(models, func(i, j int) bool {
		a, b := &models[i], &models[j]
		if req.PreferUnmoderated && a.Moderated != b.Moderated {
			return !a.Moderated
		}
		if a.Pricing.PromptCostPerToken != b.Pricing.PromptCostPerToken {
			return a.Pricing.PromptCostPerToken < b.Pricing.PromptCostPerToken
		}
		if a.ContextLength != b.ContextLength {
			return a.ContextLength > b.ContextLength
		}
		return a.ID < b.ID
	})
}

// Select returns every qualifying model from the snapshot in ranked order,
// capped at limit. A limit <= 0 means no cap. Absence of a match is a
// normal outcome: the result is simply empty.
func Select(models []Model, req *Requirements, limit int) ([]Model, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	matched := make([]Model, 0, len(models))
	for i := range models {
		if qualifies(&models[i], req) {
			matched = append(matched, models[i])
		}
	}
	rank(matched, req)

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// SelectOne returns the single best qualifying model. The second return
// value is false when nothing qualifies.
func SelectOne(models []Model, req *Requirements) (Model, bool, error) {
	matched, err := Select(models, req, 1)
	if err != nil || len(matched) == 0 {
		return Model{}, false, err
	}
	return matched[0], true, nil
}
