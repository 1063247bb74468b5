package interview

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// TokenCounter estimates the token cost of a string. Implementations live
// in the AI adapter; HeuristicTokens is the dependency-free default.
type TokenCounter func(text string) int

// HeuristicTokens approximates tokens at four characters each.
func HeuristicTokens(text string) int {
	return (len(text) + 3) / 4
}

// historyWindow is how many prior turns are replayed to the reasoning
// service. Older turns carry little signal for the next question and
// inflate the prompt.
const historyWindow = 4

// stageGuidance returns the interviewer playbook for a 1-based stage.
// Stages 3 and 4 are the two technical rounds and specialize per role
// category; everything else is shared across roles.
func stageGuidance(stage int, category domain.RoleCategory, topic string) string {
	switch {
	case stage <= 1:
		return fmt.Sprintf("Opening question. Be warm and welcoming. Ask the candidate to introduce themselves, their educational background, and what interests them about %s.", topic)
	case stage == 2:
		return fmt.Sprintf("Follow-up on motivation. Dig into why they chose %s as a career path, what sparked their interest in %s, and what they hope to achieve in their first year.", category, topic)
	case stage == 3:
		if g, ok := stage3Guidance[category]; ok {
			return g
		}
		return fmt.Sprintf("First technical question. Ask about fundamentals of %s suitable for a fresher: basic concepts, their learning journey, or an academic project.", topic)
	case stage == 4:
		if g, ok := stage4Guidance[category]; ok {
			return g
		}
		return fmt.Sprintf("Second technical question. Ask how they apply %s in practice: tools used, problem-solving approach, a real scenario. Adjust difficulty to their previous answer.", topic)
	case stage == 5:
		return "Third technical question. Probe problem-solving ability: a challenge they overcame, how they learn new technologies, or a project that went wrong. Focus on thinking process over knowledge."
	case stage == 6:
		return "First behavioral question. Teamwork and collaboration, in 'tell me about a time' form. Look for specific examples, not generic claims."
	case stage == 7:
		return fmt.Sprintf("Second behavioral question. Learning and growth: a failure they learned from, how they stay current with %s, or how they take criticism. Look for a growth mindset.", topic)
	case stage == 8:
		return fmt.Sprintf("Third behavioral question. Initiative and passion: side projects, self-driven learning, how they practice %s outside class or work.", topic)
	case stage == 9:
		return "Career goals. Where they see themselves in 3-5 years, what they want to build, what they look for in a first job. Look for realistic goals."
	case stage == 10:
		return fmt.Sprintf("Strengths and weaknesses. Ask for their greatest strength as a %s and one area they are actively improving. A good answer admits a gap and shows work on it.", topic)
	default:
		return "Closing. Invite their questions about the role, ask if there is anything else they want known, and thank them for their time."
	}
}

var stage3Guidance = map[domain.RoleCategory]string{
	domain.RoleSoftwareDev:      "First technical question. Start with programming fundamentals for a fresher: a basic concept, a concept pair to compare, or a class project walkthrough. No advanced topics yet.",
	domain.RoleDataScience:      "First technical question. Data basics: structured vs unstructured data, handling missing values, what data cleaning is, or a coursework analysis project.",
	domain.RoleWebDev:           "First technical question. Web fundamentals: HTML vs CSS vs JavaScript, what responsive design means, or a site they have built even as a class project.",
	domain.RoleDevOps:           "First technical question. Basic concepts: what DevOps means to them, what version control is for, dev vs production environments, or their Git experience.",
	domain.RoleQA:               "First technical question. Testing basics: manual vs automated testing, why testing matters, or how they would find and report a bug.",
	domain.RoleMobileDev:        "First technical question. Mobile basics: native vs cross-platform, how apps differ from websites, or apps they have built.",
	domain.RoleDatabaseAdmin:    "First technical question. Database basics: what a database is for, what SQL is, or databases they have worked with.",
	domain.RoleCybersecurity:    "First technical question. Security basics: what cybersecurity means to them, common threats they can name, or personal security practices.",
	domain.RoleUIUX:             "First technical question. Design basics: UI vs UX, what makes a good interface, or a design they can walk through.",
	domain.RoleProjectMgmt:      "First technical question. PM basics: what a project manager does, a team project they led, or how they prioritize competing urgent tasks.",
	domain.RoleBusinessAnalysis: "First technical question. Analysis basics: how they gather requirements, what a business analyst does, or a process they have documented.",
	domain.RoleNetworkEng:       "First technical question. Networking basics: what happens when a page loads, TCP vs UDP at a high level, or networks they have configured.",
}

var stage4Guidance = map[domain.RoleCategory]string{
	domain.RoleSoftwareDev:      "Second technical question, slightly deeper. How they debug, an intermediate concept, or the hardest bug they have fixed. Build on the previous answer.",
	domain.RoleDataScience:      "Second technical question. Practical application: visualizing a dataset, analysis libraries used, what correlation means, or how they validate results.",
	domain.RoleWebDev:           "Second technical question. Practical web skills: the CSS box model, fetching from an API, or frameworks they have learned.",
	domain.RoleDevOps:           "Second technical question. Practical DevOps: cloud platforms used, what CI/CD means, deploying an application, or command-line comfort.",
	domain.RoleQA:               "Second technical question. Testing practice: how they would test a given feature, what makes a good test case, or tools they have used.",
	domain.RoleMobileDev:        "Second technical question. Mobile specifics: handling screen sizes, local data storage, or their hardest mobile problem.",
	domain.RoleDatabaseAdmin:    "Second technical question. SQL fundamentals: a simple query, what a primary key is, or joining two tables.",
	domain.RoleCybersecurity:    "Second technical question. Security concepts: what encryption is for, what HTTPS does, or authentication vs authorization.",
	domain.RoleUIUX:             "Second technical question. Design process: gathering user requirements, their tool set, or handling design feedback.",
	domain.RoleProjectMgmt:      "Second technical question. PM skills: conflicting priorities, Agile or Scrum exposure, or tracking progress against a deadline.",
	domain.RoleBusinessAnalysis: "Second technical question. Analysis practice: requirements elicitation techniques, reconciling conflicting stakeholders, or modeling a workflow.",
	domain.RoleNetworkEng:       "Second technical question. Practical networking: troubleshooting a connectivity issue, protocols they know well, or securing a small network.",
}

// SystemPrompt builds the evaluator/interviewer instruction block for one
// turn. The reasoning service must return a JSON object with feedback,
// score, and next_question; the engine repairs anything else.
func SystemPrompt(topic string, category domain.RoleCategory, stage int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a senior technical interviewer conducting a mock interview for a fresher/student candidate (0-2 years experience).\n\n")
	fmt.Fprintf(&b, "ROLE CONTEXT: %s\nROLE CATEGORY: %s\nQUESTION NUMBER: %d of %d\n\n", topic, category, stage, DefaultMaxStages)
	b.WriteString(`Evaluate the candidate's answer for relevance, technical understanding at their level, communication quality, use of examples (academic and personal projects count), and learning mindset. Honesty about gaps is a positive signal.

Score 1-10 against fresher expectations: 9-10 exceptional, 7-8 strong, 5-6 average, 3-4 below average, 1-2 not ready. Do not expect expert knowledge; value learning ability and passion.

Feedback must start with something positive, name concrete areas for growth, and give actionable advice in 3-5 sentences.

`)
	fmt.Fprintf(&b, "Guidance for the next question (stage %d):\n%s\n\n", stage, stageGuidance(stage, category, topic))
	b.WriteString(`Interview structure across 10-12 questions: introduction, motivation, technical fundamentals, technical application, problem-solving, teamwork, learning and growth, initiative, career goals, strengths and weaknesses, candidate questions, closing. Adapt difficulty to the previous score: 7+ go slightly deeper, 4-6 standard progression, below 4 simplify.

Return ONLY valid JSON:
{"feedback": "3-5 encouraging, specific sentences", "score": N, "next_question": "one natural, conversational question"}`)
	return b.String()
}

// BuildContext assembles the message list for one evaluation call: system
// prompt, a replay of the most recent turns, and the current answer with
// emphasis. When the estimated token cost exceeds budget, the oldest
// replayed turns are dropped first; the system prompt and current answer
// are never dropped. A zero budget disables trimming.
func BuildContext(transcript, currentQuestion, topic string, history []domain.Turn, budget int, count TokenCounter) []domain.ChatMessage {
	if count == nil {
		count = HeuristicTokens
	}
	stage := len(history) + 1
	category := Classify(topic)
	system := SystemPrompt(topic, category, stage)

	if currentQuestion == "" {
		if len(history) > 0 {
			currentQuestion = history[len(history)-1].Question
		} else {
			currentQuestion = "Tell me about yourself"
		}
	}
	current := fmt.Sprintf("CURRENT QUESTION: %q\n\nCANDIDATE'S ANSWER: %q\n\nWORD COUNT: %d words\n\nNow provide your evaluation following all the guidelines above. Be specific, honest, and professional.",
		currentQuestion, transcript, len(strings.Fields(transcript)))

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	for {
		msgs := make([]domain.ChatMessage, 0, len(window)*3+2)
		msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: system})
		for i, turn := range window {
			msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: fmt.Sprintf("Question %d: %s", i+1, turn.Question)})
			msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleUser, Content: fmt.Sprintf("Candidate's Answer: %s", turn.Answer)})
			if turn.Feedback != "" {
				msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: fmt.Sprintf("My Evaluation: Score %d/10. %s", turn.Score, turn.Feedback)})
			}
		}
		msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleUser, Content: current})

		if budget <= 0 || len(window) == 0 || contextTokens(msgs, count) <= budget {
			return msgs
		}
		window = window[1:]
	}
}

func contextTokens(msgs []domain.ChatMessage, count TokenCounter) int {
	total := 0
	for _, m := range msgs {
		total += count(m.Content)
	}
	return total
}
