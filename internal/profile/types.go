package profile

import "strings"

// EducationLevels are the education options offered by the UI.
var EducationLevels = []string{"High School", "Bachelor's", "Master's", "PhD", "Other"}

// ExperienceBuckets are the selectable experience ranges.
var ExperienceBuckets = []string{"0-2 years", "3-5 years", "5-10 years", "10+ years"}

// Profile is the user's career profile. It is replaced wholesale on save and
// read-only to the core.
type Profile struct {
	Education  string         `json:"education"`
	Experience string         `json:"experience"` // one of ExperienceBuckets
	Skills     map[string]int `json:"skills"`     // skill name → self-assessed level (1-5)
}

// ExperienceLevel maps the experience bucket onto a roadmap difficulty.
// 5-10 and 10+ years are advanced, 3-5 intermediate; anything else,
// including a nil profile, is beginner.
func (p *Profile) ExperienceLevel() string {
	if p == nil {
		return "beginner"
	}
	switch {
	case strings.Contains(p.Experience, "5-10"), strings.Contains(p.Experience, "10+"):
		return "advanced"
	case strings.Contains(p.Experience, "3-5"):
		return "intermediate"
	default:
		return "beginner"
	}
}
