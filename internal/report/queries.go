package report

import "fmt"

// Search-mode query templates. Each asks for a fixed structure so the four
// sections render consistently.

func overviewQuery(career string) string {
	return fmt.Sprintf("Create a detailed overview of the %s career with the following structure:\n"+
		"1. Role Overview: What do %s professionals do?\n"+
		"2. Key Responsibilities: List the main tasks and responsibilities\n"+
		"3. Required Technical Skills: List the technical skills needed\n"+
		"4. Required Soft Skills: List the soft skills needed\n"+
		"5. Educational Background: What education is typically required?",
		career, career)
}

func marketQuery(career string) string {
	return fmt.Sprintf("Analyze the job market for %s professionals with the following structure:\n"+
		"1. Job Growth Projections: How is job growth trending?\n"+
		"2. Salary Ranges: What are salary ranges by experience level?\n"+
		"3. Top Industries: Which industries hire the most %s professionals?\n"+
		"4. Geographic Hotspots: Which locations have the most opportunities?\n"+
		"5. Emerging Trends: What new trends are affecting this field?",
		career, career)
}

func roadmapQuery(career, level string) string {
	return fmt.Sprintf("Create a learning roadmap for becoming a %s professional at the %s level with this structure:\n"+
		"1. Skills to Develop: What skills should they focus on?\n"+
		"2. Education Requirements: What degrees or certifications are needed?\n"+
		"3. Recommended Courses: What specific courses or training programs work best?\n"+
		"4. Learning Resources: What books, websites, or tools are helpful?\n"+
		"5. Timeline: Provide a realistic timeline for skill acquisition",
		career, level)
}

func insightsQuery(career string) string {
	return fmt.Sprintf("Provide industry insights for %s professionals with this structure:\n"+
		"1. Workplace Culture: What is the typical work environment like?\n"+
		"2. Day-to-Day Activities: What does a typical workday include?\n"+
		"3. Career Progression: What career advancement paths exist?\n"+
		"4. Work-Life Balance: How is the work-life balance in this field?\n"+
		"5. Success Strategies: What tips help professionals succeed in this field?",
		career)
}

// Plain-model prompts for language-model-only mode (no search capability).

func overviewPrompt(career string) string {
	return fmt.Sprintf("Provide a comprehensive analysis of the %s career path. "+
		"Include role overview, key responsibilities, required technical and soft skills, "+
		"and educational background or alternative paths into the field. "+
		"Format the response in markdown with clear headings and bullet points.", career)
}

func marketPrompt(career string) string {
	return fmt.Sprintf("Analyze the current job market for %s professionals. "+
		"Include information on job growth projections, salary ranges by experience level, "+
		"top industries hiring, geographic hotspots, and emerging trends affecting the field. "+
		"Format the response in markdown with clear headings.", career)
}

func roadmapPrompt(career, level string) string {
	return fmt.Sprintf("Create a detailed learning roadmap for someone pursuing a %s career path. "+
		"The person is at a %s level. "+
		"Include essential skills to develop, specific education requirements, recommended courses and resources, "+
		"and a timeline for skill acquisition. Structure the response with clear sections and markdown formatting.", career, level)
}

func insightsPrompt(career string) string {
	return fmt.Sprintf("Provide detailed insider insights about working as a %s professional. "+
		"Include information on workplace culture, day-to-day activities, career progression paths, "+
		"work-life balance considerations, and success strategies. "+
		"Format the response in markdown with clear headings.", career)
}
