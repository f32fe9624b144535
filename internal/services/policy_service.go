package services

import (
	"github.com/casbin/casbin/v2"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy implements domain.PolicyService. Adding an existing rule is not an
// error. The gorm adapter persists the rule as part of AddPolicy.
func (p *PolicyServiceImpl) AddPolicy(subject, resource, action string) error {
	_, err := p.enforcer.AddPolicy(subject, resource, action)
	return err
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(subject, resource, action string) (bool, error) {
	return p.enforcer.Enforce(subject, resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

// SeedPolicies adds rules given as {subject, resource, action} triples
func SeedPolicies(svc domain.PolicyService, rules [][3]string) error {
	for _, r := range rules {
		if err := svc.AddPolicy(r[0], r[1], r[2]); err != nil {
			return err
		}
	}
	return nil
}
