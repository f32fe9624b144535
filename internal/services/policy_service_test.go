package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/auth"
	"github.com/codeclip-inc/lastly-auth/internal/mocks"
)

// createPolicyServiceForTest creates a PolicyService with mock Casbin enforcer
func createPolicyServiceForTest(t *testing.T) (domain.PolicyService, *mocks.MockCasbinEnforcer) {
	t.Helper()

	enforcer := mocks.NewMockCasbinEnforcer()
	return NewPolicyServiceWithEnforcer(enforcer), enforcer
}

func TestPolicyServiceImpl_AddPolicy(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*mocks.MockCasbinEnforcer)
		expectedError error
	}{
		{
			name: "successful policy addition",
		},
		{
			name: "policy already exists",
			setupMock: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					return false, nil
				}
			},
		},
		{
			name: "add policy fails",
			setupMock: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					return false, errors.New("adapter unavailable")
				}
			},
			expectedError: errors.New("adapter unavailable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, enforcer := createPolicyServiceForTest(t)
			if tt.setupMock != nil {
				tt.setupMock(enforcer)
			}

			err := svc.AddPolicy("provider_PHONE", "/users/me", "GET")
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPolicyServiceImpl_CheckPermission(t *testing.T) {
	svc, _ := createPolicyServiceForTest(t)
	require.NoError(t, svc.AddPolicy("provider_PHONE", "/users/me", "GET"))

	ok, err := svc.CheckPermission("provider_PHONE", "/users/me", "GET")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckPermission("provider_KAKAO", "/users/me", "GET")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicyServiceImpl_GetPolicies(t *testing.T) {
	svc, enforcer := createPolicyServiceForTest(t)
	require.NoError(t, svc.AddPolicy("provider_PHONE", "/users/me", "GET"))
	require.NoError(t, svc.AddPolicy("provider_PHONE", "/users/me", "GET"))

	assert.Equal(t, [][]string{{"provider_PHONE", "/users/me", "GET"}}, svc.GetPolicies())

	enforcer.GetPolicyFunc = func() ([][]string, error) {
		return nil, errors.New("boom")
	}
	assert.Empty(t, svc.GetPolicies())
}

func TestSeedPolicies_WithCasbin(t *testing.T) {
	casbinSvc, err := auth.NewInMemoryCasbinService()
	require.NoError(t, err)
	svc := NewPolicyService(casbinSvc.E)

	require.NoError(t, SeedPolicies(svc, [][3]string{
		{auth.ProviderSubject("PHONE"), "/users/me", "GET"},
		{auth.ProviderSubject("PHONE"), "/auth/logout", "POST"},
	}))

	ok, err := svc.CheckPermission("provider_PHONE", "/auth/logout", "POST")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckPermission("provider_PHONE", "/auth/logout", "GET")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, svc.GetPolicies(), 2)
}
