package skill

import (
	"strings"

	"github-skill-scout/internal/domain"
)

// Normalizer resolves raw skill names against a Graph. It holds no mutable state and is
// safe for concurrent use.
type Normalizer struct {
	graph *Graph
}

// NewNormalizer creates a normalizer over graph.
func NewNormalizer(graph *Graph) *Normalizer {
	return &Normalizer{graph: graph}
}

// Graph returns the underlying skill graph.
func (n *Normalizer) Graph() *Graph {
	return n.graph
}

// Normalize resolves every raw skill, in input order. Resolution tries a direct name match,
// then an alias match, then a fuzzy match over Variations, and finally falls back to the
// token itself as a concept.
//
// Inputs resolving to the same normalized key produce a single entry whose weight is the sum
// of the individual weights.
func (n *Normalizer) Normalize(rawSkills []string) []domain.NormalizedSkill {
	if len(rawSkills) == 0 {
		return []domain.NormalizedSkill{}
	}

	out := make([]domain.NormalizedSkill, 0, len(rawSkills))
	index := make(map[string]int, len(rawSkills))

	for _, raw := range rawSkills {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}

		resolved := n.resolve(raw, token)
		key := strings.ToLower(resolved.Normalized)
		if i, ok := index[key]; ok {
			out[i].Weight += resolved.Weight
			continue
		}
		index[key] = len(out)
		out = append(out, resolved)
	}

	return out
}

func (n *Normalizer) resolve(original, token string) domain.NormalizedSkill {
	if node, ok := n.graph.Node(token); ok {
		return fromNode(original, node, domain.WeightDirect)
	}

	if node, ok := n.graph.NodeByAlias(token); ok {
		return fromNode(original, node, domain.WeightAlias)
	}

	for _, variation := range Variations(token) {
		if node, ok := n.graph.Node(variation); ok {
			return fromNode(original, node, domain.WeightFuzzy)
		}
	}

	return domain.NormalizedSkill{
		Original:   original,
		Normalized: token,
		Category:   domain.CategoryConcept,
		Expanded:   []string{token},
		Weight:     domain.WeightFallback,
	}
}

func fromNode(original string, node domain.SkillNode, weight float64) domain.NormalizedSkill {
	expanded := make([]string, len(node.Expanded))
	copy(expanded, node.Expanded)
	return domain.NormalizedSkill{
		Original:   original,
		Normalized: node.Name,
		Category:   node.Category,
		Expanded:   expanded,
		Weight:     weight,
	}
}

// ExpandedSkills flattens normalized skills into a keyword bag: every normalized name and every
// expanded keyword, each once, in first-seen order.
func ExpandedSkills(skills []domain.NormalizedSkill) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(skills)*4)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, s := range skills {
		add(s.Normalized)
		for _, kw := range s.Expanded {
			add(kw)
		}
	}
	return out
}
