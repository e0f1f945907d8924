package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/wayfind/internal/config"
)

// --- careers ---

var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "List the career catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/careers")
		if err != nil {
			return err
		}

		var catalog struct {
			Categories []string            `json:"categories"`
			Careers    map[string][]string `json:"careers"`
		}
		if err := decodeJSON(resp, &catalog); err != nil {
			return err
		}

		for _, cat := range catalog.Categories {
			if category != "" && !strings.EqualFold(cat, category) {
				continue
			}
			fmt.Println(colorize(colorBold, cat))
			for _, career := range catalog.Careers[cat] {
				fmt.Printf("  %s\n", career)
			}
		}
		return nil
	},
}

func init() {
	careersCmd.Flags().String("category", "", "show one category only")
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze <career>",
	Short: "Generate (or recall) the analysis report for a career",
	Long: `Generate (or recall) the analysis report for a career.

Examples:
  wayfind analyze "Data Science"
  wayfind analyze Nursing`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		career := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/analyze", map[string]string{"career": career})
		if err != nil {
			return err
		}

		var rep struct {
			CareerName       string `json:"career_name"`
			Research         string `json:"research"`
			MarketAnalysis   string `json:"market_analysis"`
			LearningRoadmap  string `json:"learning_roadmap"`
			IndustryInsights string `json:"industry_insights"`
		}
		if err := decodeJSON(resp, &rep); err != nil {
			return err
		}

		for _, section := range []string{rep.Research, rep.MarketAnalysis, rep.LearningRoadmap, rep.IndustryInsights} {
			fmt.Println(section)
			fmt.Println()
		}
		return nil
	},
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the career advisor a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		career, _ := cmd.Flags().GetString("career")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		body := map[string]string{"question": question}
		if career != "" {
			body["career"] = career
		}
		resp, err := client.post(cmd.Context(), "/chat", body)
		if err != nil {
			return err
		}

		var turn struct {
			Response string `json:"response"`
			Career   string `json:"career"`
		}
		if err := decodeJSON(resp, &turn); err != nil {
			return err
		}

		if turn.Career != "" {
			fmt.Println(colorize(colorCyan, "["+turn.Career+"]"))
		}
		fmt.Println(turn.Response)
		return nil
	},
}

func init() {
	askCmd.Flags().String("career", "", "career to ground the answer in (default: most recently analyzed)")
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the advisor chat history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/chat?limit="+strconv.Itoa(limit))
		if err != nil {
			return err
		}

		var history struct {
			Turns []struct {
				CreatedAt string `json:"created_at"`
				Question  string `json:"question"`
				Response  string `json:"response"`
			} `json:"turns"`
		}
		if err := decodeJSON(resp, &history); err != nil {
			return err
		}

		if len(history.Turns) == 0 {
			fmt.Println("No chat history.")
			return nil
		}

		for _, turn := range history.Turns {
			fmt.Printf("%s %s\n", colorize(colorBold, "Q:"), turn.Question)
			fmt.Printf("%s\n\n", turn.Response)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "maximum number of turns to show")
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile")
		if err != nil {
			return err
		}

		var body struct {
			Profile any `json:"profile"`
		}
		if err := decodeJSON(resp, &body); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(body.Profile)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the profile",
	Long: `Update the profile. Unspecified fields keep their current values.

Examples:
  wayfind profile set --education "Master's" --experience "3-5 years"
  wayfind profile set --skill Python=4 --skill SQL=3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		education, _ := cmd.Flags().GetString("education")
		experience, _ := cmd.Flags().GetString("experience")
		skillFlags, _ := cmd.Flags().GetStringSlice("skill")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		// Saves are wholesale, so start from the current profile.
		resp, err := client.get(cmd.Context(), "/profile")
		if err != nil {
			return err
		}
		var current struct {
			Profile struct {
				Education  string         `json:"education"`
				Experience string         `json:"experience"`
				Skills     map[string]int `json:"skills"`
			} `json:"profile"`
		}
		if err := decodeJSON(resp, &current); err != nil {
			return err
		}

		p := current.Profile
		if education != "" {
			p.Education = education
		}
		if experience != "" {
			p.Experience = experience
		}
		if len(skillFlags) > 0 {
			if p.Skills == nil {
				p.Skills = make(map[string]int)
			}
			for _, s := range skillFlags {
				name, levelStr, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --skill %q, expected Name=Level", s)
				}
				level, err := strconv.Atoi(levelStr)
				if err != nil || level < 1 || level > 5 {
					return fmt.Errorf("invalid level in --skill %q, expected 1-5", s)
				}
				p.Skills[strings.TrimSpace(name)] = level
			}
		}

		putResp, err := client.put(cmd.Context(), "/profile", p)
		if err != nil {
			return err
		}
		var saved map[string]any
		if err := decodeJSON(putResp, &saved); err != nil {
			return err
		}

		printSuccess("Profile updated")
		return nil
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import <resume.pdf>",
	Short: "Import skills from a PDF resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.postFile(cmd.Context(), "/profile/resume", "file", args[0])
		if err != nil {
			return err
		}

		var result struct {
			SkillsAdded []string `json:"skills_added"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.SkillsAdded) == 0 {
			fmt.Println("No new skills found.")
			return nil
		}
		printSuccess("Added %d skills: %s", len(result.SkillsAdded), strings.Join(result.SkillsAdded, ", "))
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("education", "", "education level")
	profileSetCmd.Flags().String("experience", "", "experience range (e.g. \"3-5 years\")")
	profileSetCmd.Flags().StringSlice("skill", nil, "skill as Name=Level (1-5), repeatable")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileImportCmd)
}

// --- report ---

var reportCmd = &cobra.Command{
	Use:   "report <career>",
	Short: "Show a stored report without re-analyzing",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		career := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/reports/"+url.PathEscape(career))
		if err != nil {
			return err
		}

		var rep struct {
			Research         string `json:"research"`
			MarketAnalysis   string `json:"market_analysis"`
			LearningRoadmap  string `json:"learning_roadmap"`
			IndustryInsights string `json:"industry_insights"`
		}
		if err := decodeJSON(resp, &rep); err != nil {
			return err
		}

		for _, section := range []string{rep.Research, rep.MarketAnalysis, rep.LearningRoadmap, rep.IndustryInsights} {
			fmt.Println(section)
			fmt.Println()
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(reportCmd)
}
