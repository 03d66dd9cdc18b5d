package entity

import (
	"time"
)

// PrimaryGoal is what a lead wants built first.
type PrimaryGoal string

const (
	GoalWebsite   PrimaryGoal = "Website"
	GoalAIAgent   PrimaryGoal = "AI Agent"
	GoalAnalytics PrimaryGoal = "Analytics Platform"
	GoalOther     PrimaryGoal = "Other"
)

// PrimaryGoals lists the accepted goals in display order.
var PrimaryGoals = []PrimaryGoal{GoalWebsite, GoalAIAgent, GoalAnalytics, GoalOther}

func (g PrimaryGoal) Valid() bool {
	switch g {
	case GoalWebsite, GoalAIAgent, GoalAnalytics, GoalOther:
		return true
	}
	return false
}

// User is the aggregate root for a lead.
// Users are only ever created by a successful code verification; profile
// fields stay empty until onboarding.
type User struct {
	ID          string
	Email       string
	FullName    string
	Company     string
	PrimaryGoal PrimaryGoal
	BuildGoal   string
	IsOnboarded bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Onboarding is the questionnaire payload applied to a User.
type Onboarding struct {
	FullName    string
	Company     string
	PrimaryGoal PrimaryGoal
	BuildGoal   string
}

// Apply copies the questionnaire onto u and marks it onboarded.
func (u *User) Apply(o Onboarding, now time.Time) {
	u.FullName = o.FullName
	u.Company = o.Company
	u.PrimaryGoal = o.PrimaryGoal
	u.BuildGoal = o.BuildGoal
	u.IsOnboarded = true
	u.UpdatedAt = now
}
