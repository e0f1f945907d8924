// Package resume imports skills from a PDF resume into the profile. The text
// is extracted locally; a language model turns it into a skill list.
package resume

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kalambet/wayfind/internal/answer"
	"github.com/kalambet/wayfind/internal/profile"
)

// Imported skills default to a mid-scale self-assessment; the user adjusts
// levels afterwards.
const importedSkillLevel = 3

// Resume text beyond this many runes is truncated before prompting; skill
// mentions past this point add little.
const maxPromptRunes = 8000

const extractPrompt = "Extract the professional skills from the following resume text. " +
	"Respond with only a comma-separated list of skill names, nothing else. " +
	"Limit the list to the 20 most relevant skills.\n\nResume text:\n%s"

// Extractor pulls plain text out of a resume file.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// PDFExtractor extracts text from PDF files.
type PDFExtractor struct{}

func (PDFExtractor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}

// Importer extracts skills from a resume and merges them into the profile.
type Importer struct {
	extract  Extractor
	answerer answer.Answerer // nil when no language model is configured
	profiles *profile.Manager
	logger   *slog.Logger
}

// NewImporter creates an Importer. answerer may be nil; Import then fails
// with answer.ErrNotConfigured.
func NewImporter(extract Extractor, answerer answer.Answerer, profiles *profile.Manager) *Importer {
	return &Importer{
		extract:  extract,
		answerer: answerer,
		profiles: profiles,
		logger:   slog.Default(),
	}
}

// Import reads the resume at path and merges extracted skills into the
// profile at the default level. Skills already present keep their levels.
// Returns the names of skills that were added.
func (i *Importer) Import(ctx context.Context, path string) ([]string, error) {
	if i.answerer == nil {
		return nil, fmt.Errorf("resume import: %w", answer.ErrNotConfigured)
	}

	text, err := i.extract.ExtractText(path)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("resume at %s contains no extractable text", path)
	}
	if runes := []rune(text); len(runes) > maxPromptRunes {
		text = string(runes[:maxPromptRunes])
	}

	response, err := i.answerer.Answer(ctx, fmt.Sprintf(extractPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("extracting skills: %w", err)
	}

	skills := parseSkillList(response)
	if len(skills) == 0 {
		i.logger.Warn("no skills extracted from resume", "path", path)
		return nil, nil
	}

	current, err := i.profiles.Get()
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &profile.Profile{}
	}
	if current.Skills == nil {
		current.Skills = make(map[string]int, len(skills))
	}

	var added []string
	for _, skill := range skills {
		if _, exists := current.Skills[skill]; exists {
			continue
		}
		current.Skills[skill] = importedSkillLevel
		added = append(added, skill)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := i.profiles.Replace(*current); err != nil {
		return nil, fmt.Errorf("saving imported skills: %w", err)
	}
	i.logger.Info("resume imported", "path", path, "skills_added", len(added))
	return added, nil
}

// parseSkillList splits a comma-separated model response into clean skill
// names. Models occasionally wrap the list in prose or bullets; lines without
// commas that look like sentences are ignored.
func parseSkillList(response string) []string {
	var skills []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(response, ",") {
		skill := strings.TrimSpace(part)
		skill = strings.Trim(skill, ".-*•")
		skill = strings.TrimSpace(skill)
		if skill == "" || len(skill) > 60 || strings.Count(skill, " ") > 4 {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
	}
	return skills
}
