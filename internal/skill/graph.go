package skill

import (
	"strings"

	"github-skill-scout/internal/domain"
)

// Graph is the immutable skill knowledge base. It is built once at startup and shared by
// reference; no method mutates it, so concurrent readers need no locking.
type Graph struct {
	nodes     map[string]domain.SkillNode
	aliases   map[string]string // alias -> canonical name
	languages map[string]struct{}
	order     []string
}

// NewGraph indexes nodes by canonical name and alias. Keys are lowercased.
// A duplicate canonical name or alias keeps its first occurrence.
func NewGraph(nodes []domain.SkillNode) *Graph {
	g := &Graph{
		nodes:     make(map[string]domain.SkillNode, len(nodes)),
		aliases:   make(map[string]string),
		languages: make(map[string]struct{}),
	}

	for _, node := range nodes {
		name := strings.ToLower(strings.TrimSpace(node.Name))
		if name == "" {
			continue
		}
		if _, exists := g.nodes[name]; exists {
			continue
		}
		node.Name = name
		g.nodes[name] = node
		g.order = append(g.order, name)

		if node.Category == domain.CategoryLanguage {
			g.languages[name] = struct{}{}
		}
		for _, alias := range node.Aliases {
			a := strings.ToLower(strings.TrimSpace(alias))
			if a == "" {
				continue
			}
			if _, taken := g.aliases[a]; !taken {
				g.aliases[a] = name
			}
			if node.Category == domain.CategoryLanguage {
				g.languages[a] = struct{}{}
			}
		}
	}

	return g
}

// NewDefaultGraph builds the graph from the built-in catalog.
func NewDefaultGraph() *Graph {
	return NewGraph(Catalog())
}

// Node looks up a skill by canonical name.
func (g *Graph) Node(name string) (domain.SkillNode, bool) {
	node, ok := g.nodes[name]
	return node, ok
}

// NodeByAlias looks up a skill by one of its aliases.
func (g *Graph) NodeByAlias(alias string) (domain.SkillNode, bool) {
	name, ok := g.aliases[alias]
	if !ok {
		return domain.SkillNode{}, false
	}
	return g.nodes[name], true
}

// IsLanguage reports whether keyword is the name or alias of a language skill.
func (g *Graph) IsLanguage(keyword string) bool {
	_, ok := g.languages[strings.ToLower(keyword)]
	return ok
}

// Names returns the canonical names in catalog order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of canonical skills.
func (g *Graph) Len() int {
	return len(g.order)
}
