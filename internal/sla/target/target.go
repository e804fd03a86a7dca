package target

import (
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

// Targets is the resolved SLA budget for one ticket priority.
type Targets struct {
	ResponseMinutes   int
	ResolutionMinutes int
	WarningThreshold  float64
	OnCallEligible    bool
}

// Resolve looks up the minute budgets governing a ticket of the given
// priority under the contract's configuration. The second return value is
// false when SLA tracking is disabled for that priority: either the support
// type's priority scope excludes it, or the policy disables or omits it. No
// tracking row is created in that case.
func Resolve(cfg *domain.ContractConfig, priority domain.Priority) (Targets, bool) {
	if !cfg.SupportType.PriorityScope.Includes(priority) {
		return Targets{}, false
	}
	policyTarget, ok := cfg.Policy.Target(priority)
	if !ok || !policyTarget.Enabled {
		return Targets{}, false
	}
	return Targets{
		ResponseMinutes:   policyTarget.ResponseMinutes,
		ResolutionMinutes: policyTarget.ResolutionMinutes,
		WarningThreshold:  cfg.Policy.WarningThreshold,
		OnCallEligible:    cfg.SupportType.OnCallEligible(priority),
	}, true
}
