package rules

import "github.com/gyaneshwarpardhi/blockflow/internal/config"

// Build constructs a rule set from the rules section of a validated config.
func Build(rc config.RulesConf) *Set {
	rs := make([]Rule, 0, len(rc.Forbidden))
	for _, p := range rc.Forbidden {
		rs = append(rs, Rule{Source: p.Source, Target: p.Target, Message: p.Message})
	}
	return NewSet(rs, rc.RejectUnresolved)
}
