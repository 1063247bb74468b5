// Package interview contains the pure decision logic of the mock
// interviewer: role classification, the fallback question bank, the
// offline evaluator, and prompt/context construction. Nothing in this
// package performs I/O.
package interview

import (
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// roleKeywords is priority-ordered: keyword sets overlap (e.g. "developer"
// appears in topics of several categories), so the first matching entry
// wins. The fallback question bank is designed against this exact order.
var roleKeywords = []struct {
	category domain.RoleCategory
	keywords []string
}{
	{domain.RoleSoftwareDev, []string{"python", "java", "c++", "javascript", "developer", "programmer", "software engineer"}},
	{domain.RoleDataScience, []string{"data scientist", "data analyst", "machine learning", "ai", "ml"}},
	{domain.RoleWebDev, []string{"web", "frontend", "backend", "fullstack", "react", "angular", "node"}},
	{domain.RoleDevOps, []string{"devops", "cloud", "aws", "azure", "kubernetes", "docker"}},
	{domain.RoleQA, []string{"qa", "test", "quality assurance", "automation"}},
	{domain.RoleMobileDev, []string{"mobile", "android", "ios", "flutter", "react native"}},
	{domain.RoleDatabaseAdmin, []string{"database", "sql", "dba", "mongodb", "postgresql"}},
	{domain.RoleCybersecurity, []string{"security", "cybersecurity", "penetration", "ethical hacking"}},
	{domain.RoleUIUX, []string{"ui", "ux", "design", "graphic"}},
	{domain.RoleProjectMgmt, []string{"project manager", "scrum", "agile", "product manager"}},
	{domain.RoleBusinessAnalysis, []string{"business analyst", "ba", "requirements"}},
	{domain.RoleNetworkEng, []string{"network", "cisco", "routing", "switching"}},
}

// Classify maps a free-text job topic to a role category. It is pure and
// total: any input yields a valid category, with General Technical as the
// default when nothing matches.
func Classify(topic string) domain.RoleCategory {
	t := strings.ToLower(topic)
	for _, rk := range roleKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(t, kw) {
				return rk.category
			}
		}
	}
	return domain.RoleGeneral
}
