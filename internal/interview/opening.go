package interview

import (
	"fmt"
	"strings"
)

// openingRules maps topic keywords to a role-tailored greeting template.
// Ordered; the first rule with a matching keyword wins. Templates take the
// raw topic once.
var openingRules = []struct {
	keywords []string
	template string
}{
	{[]string{"python"},
		"Good morning! Thank you for joining us today for the %s position. Let's start with - tell me about yourself, your background in Python programming, and what specifically interests you about this role?"},
	{[]string{"java"},
		"Good morning! Thank you for coming in today for the %s position. Tell me about yourself, your experience with Java development, and why you're interested in this opportunity?"},
	{[]string{"javascript", "js developer"},
		"Good morning! Thanks for being here for the %s interview. Let's start - tell me about yourself, your JavaScript experience, and what excites you about this role?"},
	{[]string{"data scientist", "data analyst", "machine learning", "ml engineer"},
		"Hello! Welcome to the %s interview. Let's begin with you telling me about your background, your experience with data analysis or machine learning, and what draws you to this field?"},
	{[]string{"web developer", "frontend", "backend", "fullstack", "full stack"},
		"Good morning! Thank you for coming in for the %s position. Tell me about yourself, your web development experience, and what aspects of web development you're most passionate about?"},
	{[]string{"devops", "cloud engineer", "aws", "azure", "kubernetes"},
		"Hello! Welcome to the %s interview. Let's start with you introducing yourself, your experience with DevOps or cloud technologies, and why you're interested in this role?"},
	{[]string{"qa", "quality assurance", "test engineer", "sdet"},
		"Good morning! Thanks for joining us for the %s position. Tell me about yourself, your testing experience, and what interests you about quality assurance?"},
	{[]string{"mobile developer", "android", "ios", "flutter", "react native"},
		"Hello! Welcome to the %s interview. Let's begin - tell me about yourself, your mobile development experience, and what excites you about building mobile applications?"},
	{[]string{"database", "dba", "sql", "mongodb", "postgresql"},
		"Good morning! Thank you for coming in for the %s position. Tell me about yourself, your database experience, and what interests you about database administration or engineering?"},
	{[]string{"security", "cybersecurity", "infosec", "penetration tester"},
		"Hello! Welcome to the %s interview. Let's start with you telling me about your background, your interest in cybersecurity, and what specific areas of security you're most passionate about?"},
	{[]string{"ui", "ux", "designer", "product designer"},
		"Good morning! Thanks for being here for the %s position. Tell me about yourself, your design background, and what aspects of UI/UX design you find most interesting?"},
	{[]string{"project manager", "scrum master", "product manager", "program manager"},
		"Hello! Welcome to the %s interview. Let's begin with you introducing yourself, your project management experience, and what draws you to this leadership role?"},
	{[]string{"business analyst", "ba", "systems analyst"},
		"Good morning! Thank you for joining us for the %s position. Tell me about yourself, your experience in business analysis, and what interests you about this role?"},
	{[]string{"network engineer", "network admin", "cisco", "ccna"},
		"Hello! Welcome to the %s interview. Let's start - tell me about yourself, your networking experience, and what aspects of network engineering you're most interested in?"},
	{[]string{"software engineer", "software developer", "programmer", "developer"},
		"Good morning! Thank you for coming in for the %s position. Tell me about yourself, your software development experience, and what specifically interests you about this opportunity?"},
}

const openingGeneric = "Good morning! Thank you for joining us today for the %s position. Let's start with - tell me about yourself, your relevant background and experience, and why you're interested in this role?"

// OpeningQuestion returns the role-tailored first question for a new
// session. Always non-empty; unknown topics get a generic professional
// opening.
func OpeningQuestion(topic string) string {
	lower := strings.ToLower(topic)
	for _, rule := range openingRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return fmt.Sprintf(rule.template, topic)
			}
		}
	}
	return fmt.Sprintf(openingGeneric, topic)
}
