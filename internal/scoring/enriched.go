package scoring

import (
	"strings"

	"github-skill-scout/internal/domain"
)

// The enriched scorers return 0 when their analysis block is absent.

// CommitActivityScore combines the commit history signals.
func CommitActivityScore(repo *domain.Repo) float64 {
	if repo.Enriched == nil || repo.Enriched.Commits == nil {
		return 0
	}
	c := repo.Enriched.Commits
	return clamp01(c.Frequency*0.30 +
		c.Recency*0.25 +
		c.ContributorDistribution*0.20 +
		c.MessageQuality*0.15 +
		c.BranchActivity*0.10)
}

// IssueResponseScore combines the issue handling signals.
func IssueResponseScore(repo *domain.Repo) float64 {
	if repo.Enriched == nil || repo.Enriched.Issues == nil {
		return 0
	}
	i := repo.Enriched.Issues
	return clamp01(i.ResponseTime*0.25 +
		i.ResolutionRate*0.20 +
		i.MaintainerActivity*0.20 +
		i.CommunityEngagement*0.15 +
		i.IssueQuality*0.10 +
		i.LabelUsage*0.10)
}

// DependencyHealthScore combines the dependency signals. Outdated dependencies count against.
func DependencyHealthScore(repo *domain.Repo) float64 {
	if repo.Enriched == nil || repo.Enriched.Dependencies == nil {
		return 0
	}
	d := repo.Enriched.Dependencies
	return clamp01(d.Health*0.30 +
		d.Security*0.25 +
		d.UpdateFrequency*0.20 +
		(1-d.OutdatedRatio)*0.15 +
		d.LicenseCompatibility*0.10)
}

// ReadmeQualityScore combines the README signals. A hard setup counts against.
func ReadmeQualityScore(repo *domain.Repo) float64 {
	if repo.Enriched == nil || repo.Enriched.Readme == nil {
		return 0
	}
	r := repo.Enriched.Readme
	return clamp01(r.ContentQuality*0.50 +
		r.LearningResources*0.30 +
		(1-r.SetupDifficulty)*0.20)
}

// SkillMatchScore measures how many of the user's skills the README talks about. A skill name
// found among the extracted keywords counts fully, an expanded keyword counts half.
func SkillMatchScore(repo *domain.Repo, skills []domain.NormalizedSkill) float64 {
	if repo.Enriched == nil || repo.Enriched.Readme == nil || len(skills) == 0 {
		return 0
	}
	if len(repo.Enriched.Readme.ExtractedSkills) == 0 {
		return 0
	}

	extracted := make(map[string]struct{}, len(repo.Enriched.Readme.ExtractedSkills))
	for _, kw := range repo.Enriched.Readme.ExtractedSkills {
		extracted[strings.ToLower(kw)] = struct{}{}
	}

	names := make(map[string]struct{}, len(skills))
	direct := 0
	for _, s := range skills {
		name := strings.ToLower(s.Normalized)
		names[name] = struct{}{}
		if _, ok := extracted[name]; ok {
			direct++
		}
	}

	counted := make(map[string]struct{})
	expanded := 0
	for _, s := range skills {
		for _, kw := range s.Expanded {
			k := strings.ToLower(kw)
			if _, isName := names[k]; isName {
				continue
			}
			if _, done := counted[k]; done {
				continue
			}
			counted[k] = struct{}{}
			if _, ok := extracted[k]; ok {
				expanded++
			}
		}
	}

	return capOne((float64(direct) + 0.5*float64(expanded)) / float64(len(skills)))
}
