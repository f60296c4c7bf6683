package semantic

// DefaultClusterThreshold is the similarity at or above which two
// prompts are considered near-duplicates for warming purposes.
const DefaultClusterThreshold = 0.5

// WarmingPlan groups candidate prompts into near-duplicate clusters.
// Representatives holds the first member of each cluster; warming only
// those avoids redundant upstream calls for phrasings that share a
// semantic key anyway.
type WarmingPlan struct {
	Clusters        [][]string `json:"clusters"`
	Representatives []string   `json:"representatives"`
}

// Planner builds warming plans from candidate prompt lists.
type Planner struct {
	threshold float64
}

// NewPlanner creates a planner with the default cluster threshold.
func NewPlanner() *Planner {
	return &Planner{threshold: DefaultClusterThreshold}
}

// NewPlannerWithThreshold creates a planner with an explicit threshold
// in (0, 1].
func NewPlannerWithThreshold(threshold float64) *Planner {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultClusterThreshold
	}
	return &Planner{threshold: threshold}
}

// Plan clusters prompts greedily: each prompt joins the first cluster
// whose representative scores at or above the threshold, otherwise it
// starts a new cluster. Whenever the input contains near-duplicates,
// the plan has fewer clusters than input prompts.
func (p *Planner) Plan(prompts []string) WarmingPlan {
	var plan WarmingPlan

	for _, prompt := range prompts {
		placed := false
		for i, rep := range plan.Representatives {
			if Similarity(prompt, rep) >= p.threshold {
				plan.Clusters[i] = append(plan.Clusters[i], prompt)
				placed = true
				break
			}
		}
		if !placed {
			plan.Clusters = append(plan.Clusters, []string{prompt})
			plan.Representatives = append(plan.Representatives, prompt)
		}
	}

	return plan
}
