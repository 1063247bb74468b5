package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		topic string
		want  domain.RoleCategory
	}{
		{"Python Developer", domain.RoleSoftwareDev},
		{"PYTHON DEVELOPER", domain.RoleSoftwareDev},
		{"Senior Java Programmer", domain.RoleSoftwareDev},
		{"Data Scientist", domain.RoleDataScience},
		{"Machine Learning Engineer", domain.RoleDataScience},
		{"Frontend Engineer", domain.RoleWebDev},
		{"Cloud Architect", domain.RoleDevOps},
		{"Kubernetes Administrator", domain.RoleDevOps},
		{"QA Engineer", domain.RoleQA},
		{"Android Engineer", domain.RoleMobileDev},
		{"PostgreSQL DBA", domain.RoleDatabaseAdmin},
		{"Cybersecurity Specialist", domain.RoleCybersecurity},
		{"UX Researcher", domain.RoleUIUX},
		{"Scrum Master", domain.RoleProjectMgmt},
		{"Business Analyst", domain.RoleBusinessAnalysis},
		{"Cisco Network Specialist", domain.RoleNetworkEng},
		{"Chef", domain.RoleGeneral},
		{"", domain.RoleGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.topic))
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// "developer" outranks every later keyword set when both match.
	assert.Equal(t, domain.RoleSoftwareDev, Classify("Mobile App Developer"))
	assert.Equal(t, domain.RoleSoftwareDev, Classify("Web Developer"))

	// Without a software keyword the later entries get their turn.
	assert.Equal(t, domain.RoleMobileDev, Classify("iOS Engineer"))

	// "test" sits in the QA set, which precedes the security set.
	assert.Equal(t, domain.RoleQA, Classify("Penetration Tester"))
}

func TestClassifyIdempotent(t *testing.T) {
	first := Classify("DevOps Engineer")
	second := Classify("DevOps Engineer")
	assert.Equal(t, first, second)
}
