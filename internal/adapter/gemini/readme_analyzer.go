// Package gemini rates README files with a Gemini model.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github-skill-scout/internal/common"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/port"
	"github-skill-scout/internal/skill"

	"github.com/goccy/go-json"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-2.5-flash"
	// maxReadmeChars keeps prompts well under the model's context window.
	maxReadmeChars = 12000
)

// ReadmeAnalyzer implements port.ReadmeAnalyzer with an LLM. When the model fails or
// returns something unusable, the fallback analyzer answers instead.
type ReadmeAnalyzer struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (string, error)
	graph    *skill.Graph
	fallback port.ReadmeAnalyzer

	maxRetries int
	retryDelay time.Duration
}

// aiResponse is the JSON object the model is asked to return.
type aiResponse struct {
	ContentQuality    float64  `json:"content_quality"`
	LearningResources float64  `json:"learning_resources"`
	SetupDifficulty   float64  `json:"setup_difficulty"`
	Skills            []string `json:"skills"`
}

// NewReadmeAnalyzer connects to Gemini. graph canonicalizes the skills the model names;
// fallback may be nil.
func NewReadmeAnalyzer(ctx context.Context, apiKey, model string, graph *skill.Graph, fallback port.ReadmeAnalyzer) (*ReadmeAnalyzer, error) {
	if apiKey == "" {
		return nil, common.NewError(common.ErrCodeConfig, "gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "failed to create gemini client", err)
	}
	if model == "" {
		model = DefaultModel
	}

	m := client.GenerativeModel(model)
	// force JSON output to cut down parse failures
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.2)

	a := newReadmeAnalyzer(func(ctx context.Context, prompt string) (string, error) {
		resp, err := m.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("empty response")
		}
		text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
		if !ok {
			return "", fmt.Errorf("unexpected response part %T", resp.Candidates[0].Content.Parts[0])
		}
		return string(text), nil
	}, graph, fallback)
	a.client = client
	return a, nil
}

func newReadmeAnalyzer(generate func(context.Context, string) (string, error), graph *skill.Graph, fallback port.ReadmeAnalyzer) *ReadmeAnalyzer {
	return &ReadmeAnalyzer{
		generate:   generate,
		graph:      graph,
		fallback:   fallback,
		maxRetries: 2,
		retryDelay: 2 * time.Second,
	}
}

// Close releases the client.
func (a *ReadmeAnalyzer) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// AnalyzeReadme rates readme. An empty README yields nil.
func (a *ReadmeAnalyzer) AnalyzeReadme(ctx context.Context, repo *domain.Repo, readme string) (*domain.ReadmeAnalysis, error) {
	if strings.TrimSpace(readme) == "" {
		return nil, nil
	}

	analysis, err := a.analyze(ctx, repo, readme)
	if err == nil {
		return analysis, nil
	}
	if a.fallback == nil || ctx.Err() != nil {
		return nil, err
	}
	logging.Warn().Err(err).Str("repo", repoName(repo)).Msg("llm readme analysis failed, using heuristics")
	return a.fallback.AnalyzeReadme(ctx, repo, readme)
}

func (a *ReadmeAnalyzer) analyze(ctx context.Context, repo *domain.Repo, readme string) (*domain.ReadmeAnalysis, error) {
	prompt := buildPrompt(repo, readme)

	var raw string
	err := common.Do(ctx, func() error {
		var genErr error
		raw, genErr = a.generate(ctx, prompt)
		return genErr
	},
		common.WithMaxRetries(a.maxRetries),
		common.WithInitialDelay(a.retryDelay),
	)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "gemini call failed", err)
	}

	res, err := parseAIResponse(raw)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "unusable gemini response", err)
	}
	return &domain.ReadmeAnalysis{
		ContentQuality:    clamp01(res.ContentQuality),
		LearningResources: clamp01(res.LearningResources),
		SetupDifficulty:   clamp01(res.SetupDifficulty),
		ExtractedSkills:   a.canonicalSkills(res.Skills),
	}, nil
}

func buildPrompt(repo *domain.Repo, readme string) string {
	return fmt.Sprintf(`You review open-source README files for developers looking for projects to contribute to.

Repository: %s
Description: %s

Rate the README below and answer with a single JSON object with these fields:
1. content_quality (0-1): structure, completeness and clarity.
2. learning_resources (0-1): tutorials, examples, guides and contribution docs.
3. setup_difficulty (0-1): 0 means a one-line install, 1 means a long manual setup.
4. skills: programming languages, frameworks and tools a contributor needs, lowercase.

Answer with JSON only, no Markdown.

README:
%s
`, repoName(repo), repoDescription(repo), truncate(readme, maxReadmeChars))
}

// parseAIResponse extracts the outermost JSON object, tolerating Markdown fences or chatter around it.
func parseAIResponse(raw string) (*aiResponse, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %q", truncate(raw, 200))
	}

	var res aiResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}

// canonicalSkills keeps the names the graph knows, mapped to their canonical form.
func (a *ReadmeAnalyzer) canonicalSkills(names []string) []string {
	if a.graph == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		node, ok := a.graph.Node(key)
		if !ok {
			node, ok = a.graph.NodeByAlias(key)
		}
		if !ok {
			continue
		}
		if _, dup := seen[node.Name]; dup {
			continue
		}
		seen[node.Name] = struct{}{}
		out = append(out, node.Name)
	}
	return out
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// truncate cuts s to at most n bytes without splitting the rune at the cut point.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func repoName(repo *domain.Repo) string {
	if repo == nil {
		return ""
	}
	return repo.Name
}

func repoDescription(repo *domain.Repo) string {
	if repo == nil {
		return ""
	}
	return repo.Description
}
