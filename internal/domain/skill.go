package domain

// SkillCategory classifies a canonical skill.
type SkillCategory string

const (
	CategoryLanguage  SkillCategory = "language"
	CategoryFramework SkillCategory = "framework"
	CategoryLibrary   SkillCategory = "library"
	CategoryTool      SkillCategory = "tool"
	CategoryConcept   SkillCategory = "concept"
	CategoryPlatform  SkillCategory = "platform"
)

// SkillNode is a canonical skill of the catalog. Nodes are built once and never mutated.
type SkillNode struct {
	Name     string        `json:"name"` // lowercase canonical key
	Aliases  []string      `json:"aliases"`
	Category SkillCategory `json:"category"`
	Related  []string      `json:"related"`  // informational only
	Expanded []string      `json:"expanded"` // matching keywords, including name and aliases
}

// NormalizedSkill is one user-supplied skill resolved against the catalog.
type NormalizedSkill struct {
	Original   string        `json:"original"`
	Normalized string        `json:"normalized"`
	Category   SkillCategory `json:"category"`
	Expanded   []string      `json:"expanded"`
	// Weight is the match confidence. Repeated inputs add up, so it can exceed 1.
	Weight float64 `json:"weight"`
}

// Match confidences for each resolution strategy.
const (
	WeightDirect   = 1.0
	WeightAlias    = 0.9
	WeightFuzzy    = 0.8
	WeightFallback = 0.5
)
