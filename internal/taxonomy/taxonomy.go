// Package taxonomy holds the fixed timesheet category table that task
// classifications must belong to.
package taxonomy

import "slices"

const (
	// FallbackCategory is used whenever a classification cannot be trusted.
	FallbackCategory = "Other"
	// FallbackDescription pairs with FallbackCategory.
	FallbackDescription = "Other Task Category"
)

type entry struct {
	category     string
	descriptions []string
}

// table is ordered; Categories reports names in this order.
var table = []entry{
	{"Absence", []string{"National holiday"}},
	{"Administrative", []string{
		"Daily Progress Report",
		"Email revision/answering",
		"Management Cross Company Process",
		"Other Administrative",
		"Registering hours in time tracker tools",
		"Weekly Progress Report",
	}},
	{"Code Challenge Guideline", []string{
		"Applicant asked for a reschedule CC",
		"Applicant did not show up CC",
		"BairesDev asked for a reschedule CC",
		"CC Completed",
		"Other CC",
	}},
	{"Development", []string{
		"Architecture definition",
		"Bug Fixing",
		"Code review",
		"Configuration",
		"DB Automation",
		"DB Maintenance",
		"Debug",
		"Demo preparation",
		"Deployment",
		"Design",
		"Environment setup",
		"Features development",
		"Graphic Design",
		"Integration",
		"Library Upgrade",
		"Mockups Design",
		"Other Development",
		"Peer review",
		"Refactor",
		"Requirements analysis",
		"Research / Analysis",
		"Research and Learning",
		"Rollback",
		"Spike",
		"Support",
		"Test cases development",
		"UI definition",
		"Wireframes Design",
		"Writing User Stories",
	}},
	{"Documentation", []string{
		"Diagrams drawing",
		"Documentation reading",
		"Documentation review",
		"Documentation writing",
		"Other Documentation",
		"Research",
		"Technical Writing",
	}},
	{"Hacker Rank", []string{
		"Applicant asked for a reschedule HR",
		"Applicant did not show up HR",
		"BairesDev asked for a reschedule HR",
		"HR Completed",
		"Other HR",
	}},
	{"Idle time", []string{
		"Internet issues",
		"No assigned tasks",
		"Other Idle time",
		"Partial Assignment",
		"Project has not started",
		"Travel",
	}},
	{"Internal Process", []string{
		"Coding challenges review",
		"Other Internal Process",
		"Reviewing exams",
		"Staffing Technical Interview",
		"Technical Screenings",
	}},
	{"Meetings (Client)", []string{
		"1 1 with client focal point",
		"All Hands Meeting",
		"Backlog refinement meeting",
		"Blocker removal meeting",
		"Client Meeting",
		"Client side training",
		"Daily Meeting",
		"KickOff Meeting",
		"Other Meetings (Client)",
		"Sprint Planning",
		"Sprint Retrospective",
		"Sprint Review / Demo",
	}},
	{"Meetings (Internal)", []string{
		"1 1 meeting with HRBP",
		"1 1 meeting with Manager",
		"Other Meetings (Internal)",
		"Team Meeting",
	}},
	{"Other", []string{"Other", "Other Task Category"}},
	{"Technical Interview", []string{
		"Applicant asked for a reschedule",
		"Applicant did not show up",
		"BairesDev asked for a reschedule",
		"Other Technical Interview",
		"TI Completed",
	}},
	{"Testing", []string{
		"Coding",
		"Environment configuration",
		"Exploratory",
		"Functional Testing",
		"Manual testing",
		"Other Testing",
		"Production Verification",
		"Regression testing",
		"Smoke testing",
		"Test case execution",
		"Test Creation/design",
		"Testathon / UAT",
	}},
	{"Training (Trainee)", []string{
		"Internal course",
		"Online course",
		"Other Training (Trainee)",
		"Project Onboarding (Trainee)",
		"Reading Documentation",
		"Receiving ambassador support",
		"Receiving mentoring support",
		"Self training",
	}},
	{"Training (Trainer)", []string{
		"Other Training (Trainer)",
		"Project Onboarding (Trainer)",
		"Providing ambassador support",
		"Providing mentoring support",
	}},
}

var index = func() map[string][]string {
	m := make(map[string][]string, len(table))
	for _, e := range table {
		m[e.category] = e.descriptions
	}
	return m
}()

// Categories returns every category name in table order.
func Categories() []string {
	names := make([]string, len(table))
	for i, e := range table {
		names[i] = e.category
	}
	return names
}

// CategoryIsValid reports whether name is an exact category in the table.
func CategoryIsValid(name string) bool {
	_, ok := index[name]
	return ok
}

// DescriptionIsValid reports whether description is allowed for category.
// Unknown categories never validate.
func DescriptionIsValid(category, description string) bool {
	descriptions, ok := index[category]
	return ok && slices.Contains(descriptions, description)
}

// DescriptionsFor returns a copy of the descriptions allowed for category,
// or just the fallback description when the category is unknown.
func DescriptionsFor(category string) []string {
	if descriptions, ok := index[category]; ok {
		return slices.Clone(descriptions)
	}
	return []string{FallbackDescription}
}

// Fallback returns the pair used when a classification is missing or invalid.
func Fallback() (category, description string) {
	return FallbackCategory, FallbackDescription
}

// Table returns the full mapping as a fresh map.
func Table() map[string][]string {
	out := make(map[string][]string, len(table))
	for _, e := range table {
		out[e.category] = slices.Clone(e.descriptions)
	}
	return out
}
