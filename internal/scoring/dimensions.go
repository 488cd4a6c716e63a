package scoring

import (
	"strings"
	"time"

	"github-skill-scout/internal/domain"
)

// LanguageMatch compares the repository's primary language with the user's skills.
//
//	language skill named like the repo language      → 1.0
//	expanded keyword equal to it and itself a language → 0.8
//	expanded keyword containing or contained in it     → 0.6
func LanguageMatch(repo *domain.Repo, skills []domain.NormalizedSkill, isLanguage func(string) bool) float64 {
	lang := strings.ToLower(strings.TrimSpace(repo.Language))
	if lang == "" || len(skills) == 0 {
		return 0
	}

	for _, s := range skills {
		if s.Category == domain.CategoryLanguage && strings.ToLower(s.Normalized) == lang {
			return 1.0
		}
	}

	keywords := keywordBag(skills)
	if isLanguage != nil {
		for _, kw := range keywords {
			if kw == lang && isLanguage(kw) {
				return 0.8
			}
		}
	}

	for _, kw := range keywords {
		if strings.Contains(lang, kw) || strings.Contains(kw, lang) {
			return 0.6
		}
	}
	return 0
}

// TopicMatch is the fraction of repository topics overlapping any skill keyword, doubled and
// capped at 1.
func TopicMatch(repo *domain.Repo, skills []domain.NormalizedSkill) float64 {
	if len(repo.Topics) == 0 || len(skills) == 0 {
		return 0
	}

	keywords := keywordBag(skills)
	matched := 0
	for _, topic := range repo.Topics {
		t := strings.ToLower(topic)
		if t == "" {
			continue
		}
		for _, kw := range keywords {
			if t == kw || strings.Contains(t, kw) || strings.Contains(kw, t) {
				matched++
				break
			}
		}
	}

	return capOne(float64(matched) / float64(len(repo.Topics)) * 2)
}

// ReadmeMatch is the fraction of skill keywords found in the description, tripled and capped at 1.
func ReadmeMatch(repo *domain.Repo, skills []domain.NormalizedSkill) float64 {
	if repo.Description == "" || len(skills) == 0 {
		return 0
	}

	keywords := keywordBag(skills)
	if len(keywords) == 0 {
		return 0
	}

	desc := strings.ToLower(repo.Description)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			matched++
		}
	}

	return capOne(float64(matched) / float64(len(keywords)) * 3)
}

// StarsScore is tiered so very popular repositories cannot dominate.
func StarsScore(repo *domain.Repo) float64 {
	switch {
	case repo.Stars <= 0:
		return 0
	case repo.Stars > 20000:
		return 0.5
	case repo.Stars > 5000:
		return 0.6
	case repo.Stars > 1000:
		return 0.7
	default:
		return min(float64(repo.Stars)/1000, 0.7)
	}
}

// ActivityScore decays with the days since the last update or push.
func ActivityScore(repo *domain.Repo, now time.Time) float64 {
	days := repo.DaysSinceActivity(now)

	var score float64
	switch {
	case days <= 1:
		score = 1.0
	case days <= 7:
		score = 0.95
	case days <= 30:
		score = 0.8
	case days <= 90:
		score = 0.6
	case days <= 365:
		score = 0.3
	default:
		score = 0.1
	}
	if days <= 3 {
		score += 0.05
	}
	return capOne(score)
}

// DocumentationScore rewards the metadata a newcomer relies on.
func DocumentationScore(repo *domain.Repo) float64 {
	score := 0.0
	if len(repo.Description) > 20 {
		score += 0.3
	}
	if repo.Homepage != "" {
		score += 0.2
	}
	if repo.License != "" && !strings.EqualFold(repo.License, "Other") {
		score += 0.2
	}
	if len(repo.Topics) > 0 {
		score += 0.1
	}
	if repo.GoodFirstIssues > 0 {
		score += 0.2
	}
	return capOne(score)
}

// IssueScore measures contribution opportunity as the density of good first issues.
// Zero open issues is ambiguous (flawless or abandoned) and scores a neutral 0.5.
func IssueScore(repo *domain.Repo) float64 {
	if repo.OpenIssues <= 0 {
		return 0.5
	}

	density := float64(repo.GoodFirstIssues) / float64(repo.OpenIssues)
	var score float64
	switch {
	case density >= 0.10:
		score = 1.0
	case density >= 0.05:
		score = 0.8
	case density >= 0.02:
		score = 0.6
	case density > 0:
		score = 0.4
	default:
		score = 0.2
	}

	score += min(float64(repo.OpenIssues)/20, 0.1)
	return capOne(score)
}

// ContributorScore approximates the contributor base from forks and stars.
func ContributorScore(repo *domain.Repo) float64 {
	forks := min(float64(repo.Forks)/100, 1)
	stars := min(float64(repo.Stars)/1000, 1)
	if forks < 0 {
		forks = 0
	}
	if stars < 0 {
		stars = 0
	}
	return forks*0.6 + stars*0.4
}

// keywordBag lowercases every normalized name and expanded keyword, once each.
func keywordBag(skills []domain.NormalizedSkill) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(skills)*4)
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
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

func capOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	return capOne(v)
}
