package core

// NewDefaultRulesEngine returns an engine loaded with the built-in rules
// every service instance runs at commit time.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(LineageIntegrityRule())
	engine.Register(BoundedScalarsRule())
	engine.Register(TrustConflictRule())
	return engine
}
