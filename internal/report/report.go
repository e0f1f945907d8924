package report

import "time"

// Report is the assembled career analysis: four markdown sections produced
// from four queries. Immutable once assembled; identified by CareerName, one
// report per name at a time (re-assembly overwrites, it does not version).
type Report struct {
	CareerName       string    `json:"career_name"`
	Research         string    `json:"research"`
	MarketAnalysis   string    `json:"market_analysis"`
	LearningRoadmap  string    `json:"learning_roadmap"`
	IndustryInsights string    `json:"industry_insights"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Store is the assembler's memo store: one report per career name, not
// time-bound (distinct from the query cache's TTL layer).
// Implemented by storage.Store.
type Store interface {
	GetReport(careerName string) (Report, bool, error)
	SaveReport(rep Report) error
}
