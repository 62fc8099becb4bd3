package models

import "ascent/pkg/domain"

// StakeholderScope marks which audience a question interrogates.
type StakeholderScope string

const (
	ScopeFounder  StakeholderScope = "founder"
	ScopeTeam     StakeholderScope = "team"
	ScopeCustomer StakeholderScope = "customer"
	ScopeInvestor StakeholderScope = "investor"
)

// Question is one immutable assessment item. Questions belong to exactly
// one phase and are never mutated after catalog load.
type Question struct {
	ID       domain.QuestionID
	Code     string
	Text     string
	Category domain.QuestionCategory
	PhaseID  domain.PhaseID
	Scope    StakeholderScope
}
