package target

import (
	"testing"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/domain"
)

func testConfig() *domain.ContractConfig {
	return &domain.ContractConfig{
		SupportType: domain.SupportType{
			PriorityScope:    domain.PriorityScopeAll,
			OnCallPriorities: []domain.Priority{domain.PriorityP1},
			IsActive:         true,
		},
		Policy: domain.SLAPolicy{
			WarningThreshold: 0.8,
			Targets: map[domain.Priority]domain.PolicyTarget{
				domain.PriorityP1: {ResponseMinutes: 30, ResolutionMinutes: 240, Enabled: true},
				domain.PriorityP2: {ResponseMinutes: 60, ResolutionMinutes: 480, Enabled: true},
				domain.PriorityP3: {ResponseMinutes: 240, ResolutionMinutes: 2400, Enabled: false},
			},
			IsActive: true,
		},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		priority domain.Priority
		scope    domain.PriorityScope
		enabled  bool
		want     Targets
	}{
		{
			name:     "enabled priority with on-call",
			priority: domain.PriorityP1,
			scope:    domain.PriorityScopeAll,
			enabled:  true,
			want:     Targets{ResponseMinutes: 30, ResolutionMinutes: 240, WarningThreshold: 0.8, OnCallEligible: true},
		},
		{
			name:     "enabled priority without on-call",
			priority: domain.PriorityP2,
			scope:    domain.PriorityScopeAll,
			enabled:  true,
			want:     Targets{ResponseMinutes: 60, ResolutionMinutes: 480, WarningThreshold: 0.8},
		},
		{
			name:     "disabled policy target",
			priority: domain.PriorityP3,
			scope:    domain.PriorityScopeAll,
			enabled:  false,
		},
		{
			name:     "priority missing from policy",
			priority: domain.PriorityP4,
			scope:    domain.PriorityScopeAll,
			enabled:  false,
		},
		{
			name:     "scope excludes priority",
			priority: domain.PriorityP2,
			scope:    domain.PriorityScopeP1Only,
			enabled:  false,
		},
		{
			name:     "scope admits P1",
			priority: domain.PriorityP1,
			scope:    domain.PriorityScopeP1Only,
			enabled:  true,
			want:     Targets{ResponseMinutes: 30, ResolutionMinutes: 240, WarningThreshold: 0.8, OnCallEligible: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.SupportType.PriorityScope = tc.scope

			got, enabled := Resolve(cfg, tc.priority)
			if enabled != tc.enabled {
				t.Fatalf("enabled = %v, want %v", enabled, tc.enabled)
			}
			if enabled && got != tc.want {
				t.Errorf("targets = %+v, want %+v", got, tc.want)
			}
		})
	}
}
