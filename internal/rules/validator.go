// Package rules decides whether a proposed connection between two blocks is
// legal. The rule set is a list of forbidden (source kind, target kind) pairs
// and can be swapped at runtime when the config file changes.
package rules

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
	"github.com/gyaneshwarpardhi/blockflow/internal/notice"
)

// DefaultMessage is shown when a forbidden pair has no message of its own.
const DefaultMessage = "Connection from Block B to Block A is not allowed."

// Rule forbids edges from a node of kind Source into a node of kind Target.
type Rule struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Set is an immutable collection of rules.
type Set struct {
	forbidden map[[2]string]Rule

	// RejectUnresolved makes connections whose endpoints are not in the
	// node set illegal. When false an unresolved endpoint has no kind and
	// therefore never matches a rule.
	RejectUnresolved bool
}

// NewSet builds a rule set.
func NewSet(rules []Rule, rejectUnresolved bool) *Set {
	s := &Set{forbidden: make(map[[2]string]Rule, len(rules)), RejectUnresolved: rejectUnresolved}
	for _, r := range rules {
		if r.Message == "" {
			r.Message = fmt.Sprintf("Connection from %s to %s is not allowed.", r.Source, r.Target)
		}
		s.forbidden[[2]string{r.Source, r.Target}] = r
	}
	return s
}

// DefaultSet forbids exactly blockB → blockA.
func DefaultSet() *Set {
	return NewSet([]Rule{{Source: "blockB", Target: "blockA", Message: DefaultMessage}}, false)
}

// Len returns the number of forbidden pairs.
func (s *Set) Len() int { return len(s.forbidden) }

// List returns the rules ordered by source then target kind.
func (s *Set) List() []Rule {
	out := make([]Rule, 0, len(s.forbidden))
	for _, r := range s.forbidden {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Decision is the outcome of a connection attempt.
type Decision struct {
	Allowed bool
	Rule    *Rule // set when a forbidden pair matched
	Reason  string
}

// Validator evaluates connections against the current rule set.
type Validator struct {
	set atomic.Pointer[Set]
}

// NewValidator creates a Validator; a nil set means DefaultSet.
func NewValidator(s *Set) *Validator {
	if s == nil {
		s = DefaultSet()
	}
	v := &Validator{}
	v.set.Store(s)
	return v
}

// Swap atomically replaces the rule set.
func (v *Validator) Swap(s *Set) {
	v.set.Store(s)
}

// Rules returns the active rule set.
func (v *Validator) Rules() *Set {
	return v.set.Load()
}

// CanConnect reports whether the proposed connection is legal given nodes.
func (v *Validator) CanConnect(c graph.Connection, nodes []graph.Node) bool {
	return v.Decide(c, nodes).Allowed
}

// Decide resolves both endpoints against nodes and checks the pair of kinds.
func (v *Validator) Decide(c graph.Connection, nodes []graph.Node) Decision {
	s := v.set.Load()

	srcKind, srcOK := kindOf(nodes, c.Source)
	dstKind, dstOK := kindOf(nodes, c.Target)
	if (!srcOK || !dstOK) && s.RejectUnresolved {
		return Decision{Reason: "Connection references a node that no longer exists."}
	}

	if r, hit := s.forbidden[[2]string{srcKind, dstKind}]; hit && srcOK && dstOK {
		return Decision{Rule: &r, Reason: r.Message}
	}
	return Decision{Allowed: true}
}

// Connect decides the connection and, when it is rejected, emits an
// illegal-connection notice to n.
func (v *Validator) Connect(c graph.Connection, nodes []graph.Node, n notice.Notifier) Decision {
	d := v.Decide(c, nodes)
	if !d.Allowed && n != nil {
		n.Notify(notice.New(notice.KindIllegalConnection, d.Reason))
	}
	return d
}

func kindOf(nodes []graph.Node, id string) (string, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n.Kind, true
		}
	}
	return "", false
}
