package mocks

import "github.com/codeclip-inc/lastly-auth/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AddPolicyFunc       func(subject, resource, action string) error
	CheckPermissionFunc func(subject, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// AddPolicy adds a new authorization policy
func (m *MockPolicyService) AddPolicy(subject, resource, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(subject, resource, action)
	}
	// Default behavior: success
	return nil
}

// CheckPermission checks if a subject may perform action on resource
func (m *MockPolicyService) CheckPermission(subject, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(subject, resource, action)
	}
	// Default behavior: allow
	return true, nil
}

// GetPolicies returns all policies
func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{}
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
