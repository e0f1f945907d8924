package careers

import "sort"

// catalog is the built-in set of career options, grouped by category.
// It is served to the UI as-is when no dynamic source is available.
var catalog = map[string][]string{
	"Technology": {
		"Software Engineering", "Data Science", "Cybersecurity",
		"AI/ML Engineering", "DevOps", "Cloud Architecture",
		"Mobile Development",
	},
	"Healthcare": {
		"Medicine", "Nursing", "Pharmacy", "Biomedical Engineering",
		"Healthcare Administration", "Physical Therapy",
	},
	"Business": {
		"Finance", "Marketing", "Management", "Human Resources",
		"Entrepreneurship", "Business Analysis",
	},
	"Creative": {
		"Graphic Design", "UX/UI Design", "Content Creation",
		"Digital Marketing", "Animation", "Film Production",
	},
}

// Categories returns all category names in sorted order.
func Categories() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options returns the careers listed under the given category, or nil if
// the category is unknown.
func Options(category string) []string {
	opts, ok := catalog[category]
	if !ok {
		return nil
	}
	out := make([]string, len(opts))
	copy(out, opts)
	return out
}

// All returns the full catalog as a copy safe for callers to modify.
func All() map[string][]string {
	out := make(map[string][]string, len(catalog))
	for cat, opts := range catalog {
		cp := make([]string, len(opts))
		copy(cp, opts)
		out[cat] = cp
	}
	return out
}
