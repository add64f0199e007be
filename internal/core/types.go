package core

import "liminalcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	IsolationLevel     = domain.IsolationLevel
	AccessPermission   = domain.AccessPermission
	GuardianEmotion    = domain.GuardianEmotion
	SeedlingEmotion    = domain.SeedlingEmotion
	Reaction           = domain.Reaction
	Severity           = domain.Severity
	Base               = domain.Base
	Guardian           = domain.Guardian
	Seedling           = domain.Seedling
	Shelter            = domain.Shelter
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityGuardian = domain.EntityGuardian
	EntitySeedling = domain.EntitySeedling
	EntityShelter  = domain.EntityShelter
)

const (
	IsolationLow    = domain.IsolationLow
	IsolationMedium = domain.IsolationMedium
	IsolationHigh   = domain.IsolationHigh
)

const (
	PermissionDenied     = domain.PermissionDenied
	PermissionLimited    = domain.PermissionLimited
	PermissionSupervised = domain.PermissionSupervised
	PermissionAllowed    = domain.PermissionAllowed
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
