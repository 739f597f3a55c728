package llm

import (
	"fmt"
	"strings"

	"github.com/mockmate/backend/internal/models"
)

var difficultyGuidance = map[models.Difficulty]string{
	models.DifficultyEasy:   "Ask straightforward questions suitable for entry-level candidates. Focus on fundamentals and basic scenarios.",
	models.DifficultyMedium: "Ask moderately complex questions. Include situational and competency-based questions.",
	models.DifficultyHard:   "Ask challenging, in-depth questions. Probe edge cases, trade-offs, and senior-level thinking.",
}

var modeGuidance = map[models.InterviewMode]string{
	models.ModeBehavioral:   "Focus exclusively on past behaviour using STAR method prompts (Situation, Task, Action, Result). Ask about teamwork, conflict, failure, leadership.",
	models.ModeTechnical:    "Ask technical questions highly specific to the candidate's skill set and experience. Include coding concepts, architecture decisions, and debugging scenarios.",
	models.ModeSystemDesign: "Ask about designing scalable systems relevant to the candidate's background. Focus on architecture, trade-offs, scalability, and reliability.",
	models.ModeMixed:        "Mix behavioral, technical, and situational questions in roughly equal proportion.",
	models.ModeHR:           "Ask HR-focused questions: motivation, career goals, salary expectations, company culture fit, strengths/weaknesses.",
}

func buildQuestionPrompt(profile *models.CVProfile, mode models.InterviewMode, difficulty models.Difficulty, count int) string {
	skills := "general skills"
	if len(profile.Skills) > 0 {
		n := len(profile.Skills)
		if n > 15 {
			n = 15
		}
		skills = strings.Join(profile.Skills[:n], ", ")
	}

	var exp strings.Builder
	for i, w := range profile.WorkExperience {
		if i == 3 {
			break
		}
		highlights := w.Highlights
		if len(highlights) > 2 {
			highlights = highlights[:2]
		}
		fmt.Fprintf(&exp, "- %s at %s (%s): %s\n", w.Role, w.Company, w.Duration, strings.Join(highlights, ", "))
	}
	experienceSummary := exp.String()
	if experienceSummary == "" {
		experienceSummary = "No specific work experience listed.\n"
	}

	currentRole := profile.CurrentRole
	if currentRole == "" {
		currentRole = "Not specified"
	}

	return fmt.Sprintf(`You are an expert interview coach generating personalised interview questions.

CANDIDATE PROFILE:
- Name: %s
- Current Role: %s
- Years of Experience: %g
- Key Skills: %s
- Work Experience:
%s
INTERVIEW SETTINGS:
- Mode: %s — %s
- Difficulty: %s — %s
- Number of questions to generate: %d

INSTRUCTIONS:
Generate exactly %d interview questions tailored specifically to this candidate's background.
Each question must reference their actual skills, experience, or background where possible.

Return a JSON array with exactly %d objects. Each object must have:
- "text": the full question text (string)
- "category": one of "Behavioral", "Technical", "System Design", "HR", "Situational" (string)
- "follow_up_hint": a brief hint for the interviewer on what a good answer should include (string)

Return ONLY valid JSON. No markdown fences, no explanation.
Example format:
[
  {"text": "Question text here?", "category": "Behavioral", "follow_up_hint": "Look for STAR format"}
]`,
		profile.Name, currentRole, profile.YearsOfExperience, skills, experienceSummary,
		strings.ToUpper(string(mode)), modeGuidance[mode],
		strings.ToUpper(string(difficulty)), difficultyGuidance[difficulty],
		count, count, count)
}

func buildEvaluationPrompt(question models.Question, answer models.Answer, mode models.InterviewMode, candidateName string) string {
	return fmt.Sprintf(`You are a senior interview evaluator assessing a candidate's answer.

QUESTION: %s
CATEGORY: %s
INTERVIEW MODE: %s
CANDIDATE: %s

CANDIDATE'S ANSWER (transcribed from speech):
"""%s"""

Evaluate the answer for relevance, depth, structure, and communication quality.

Return a JSON object with:
- "score": integer 0-100
- "feedback": 2-3 sentence constructive feedback (string)
- "strengths": array of up to 3 specific strengths as strings
- "improvements": array of up to 3 specific improvement points as strings

Return ONLY valid JSON. No markdown fences.`,
		question.Text, question.Category, mode, candidateName, answer.Transcript)
}

func buildReportPrompt(scores []models.AnswerScore, profile *models.CVProfile, mode models.InterviewMode) string {
	var answers strings.Builder
	var total int
	for i, s := range scores {
		fmt.Fprintf(&answers, "Q%d: %s\n  Score: %d/100\n  Summary: %s\n", i+1, s.QuestionText, s.Score, s.Feedback)
		total += s.Score
	}
	avg := 0.0
	if len(scores) > 0 {
		avg = float64(total) / float64(len(scores))
	}

	role := profile.CurrentRole
	if role == "" {
		role = "Candidate"
	}

	return fmt.Sprintf(`You are a senior interview coach generating a comprehensive post-interview report.

CANDIDATE: %s (%s)
INTERVIEW MODE: %s
TOTAL QUESTIONS: %d
AVERAGE SCORE: %.1f/100

INDIVIDUAL QUESTION RESULTS:
%s
Generate a comprehensive interview feedback report. Return a JSON object with:
- "overall_score": integer 0-100 (weighted average, accounting for question difficulty)
- "grade": "A", "B", "C", "D", or "F"
- "category_scores": array of objects, one per category seen:
    {"category": "string", "score": integer 0-100, "label": "human-readable label"}
- "top_strengths": array of 3 overall strengths as strings
- "top_improvements": array of 3 priority improvement areas as strings
- "recommended_resources": array of 2-4 objects:
    {"title": "string", "url": null, "description": "string"}
- "summary": 3-4 sentence overall narrative summary

Grade scale: A=90-100, B=80-89, C=70-79, D=60-69, F=below 60

Return ONLY valid JSON. No markdown fences.`,
		profile.Name, role, mode, len(scores), avg, answers.String())
}

func buildOverviewPrompt(sessions []SessionDigest, candidateName string) string {
	var history strings.Builder
	for i, s := range sessions {
		strengths := strings.Join(firstN(s.Strengths, 2), ", ")
		if strengths == "" {
			strengths = "N/A"
		}
		improvements := strings.Join(firstN(s.Improvements, 2), ", ")
		if improvements == "" {
			improvements = "N/A"
		}
		fmt.Fprintf(&history, "Session %d (%s / %s difficulty):\n  Score: %d/100 (Grade %s)\n  Strengths: %s\n  Improvements needed: %s\n\n",
			i+1, s.Mode, s.Difficulty, s.Score, s.Grade, strengths, improvements)
	}

	return fmt.Sprintf(`You are a professional career coach reviewing %s's interview practice history.

PRACTICE SESSIONS (%d total):
%s
Based on this history, generate a personalised coaching overview. Return a JSON object with:
- "ai_recommendation": 4-6 sentence personalised coaching narrative covering:
    * What the candidate is doing well consistently
    * Their main recurring weakness/gap
    * Specific actionable advice to improve before their next real interview
    * One concrete exercise or resource to focus on

Return ONLY valid JSON. No markdown fences.
Example: {"ai_recommendation": "..."}`, candidateName, len(sessions), history.String())
}

func buildCVExtractionPrompt(rawText string) string {
	if len(rawText) > 8000 {
		rawText = rawText[:8000]
	}

	return fmt.Sprintf(`Extract structured information from this CV/resume text.

CV TEXT:
"""%s"""

Return a JSON object with exactly these fields:
- "name": candidate's full name (string, default "Candidate" if not found)
- "current_role": most recent job title (string, empty if not found)
- "years_of_experience": total years of professional experience (number, 0 if not found)
- "skills": array of technical and soft skills (strings, max 20)
- "work_experience": array of objects:
    {"company": "string", "role": "string", "duration": "string", "highlights": ["string"]}
  (max 5 entries, 3 highlights each)
- "education": array of objects:
    {"institution": "string", "degree": "string", "field": "string", "year": "string or null"}
  (max 3 entries)

Return ONLY valid JSON. No markdown fences. If a field cannot be determined, use empty string/array/0.`, rawText)
}

func firstN(ss []string, n int) []string {
	if len(ss) <= n {
		return ss
	}
	return ss[:n]
}
