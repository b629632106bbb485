package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gerejaku_backend/internals/constants"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
)

func tenantWithTier(tier constants.SubscriptionTier) *tenantModel.TenantModel {
	return &tenantModel.TenantModel{
		TenantName: "GKI Taman Anggrek",
		TenantSlug: "gki-taman-anggrek",
		TenantTier: tier,
	}
}

func TestEvaluateTenant_NilTenantFailsClosed(t *testing.T) {
	d := EvaluateTenant(nil, constants.CapabilityCheckin, 0, time.Now())
	assert.False(t, d.Allowed)
	assert.NotEmpty(t, d.Reason)
}

func TestEvaluateTenant_SuspendedDeniesEverything(t *testing.T) {
	tn := tenantWithTier(constants.TierSuspended)
	for _, cap := range []constants.Capability{
		constants.CapabilityCheckin,
		constants.CapabilityAddMember,
		constants.CapabilityBiometricCheckin,
		constants.CapabilityExternalCheckin,
	} {
		d := EvaluateTenant(tn, cap, 0, time.Now())
		assert.False(t, d.Allowed, "capability %s harus ditolak saat suspended", cap)
	}
}

func TestEvaluateTenant_TrialOverridesMatrix(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -3)
	end := now.AddDate(0, 0, 11)

	tn := tenantWithTier(constants.TierTrial)
	tn.TenantTrialStartsAt = &start
	tn.TenantTrialEndsAt = &end

	// biometric & kiosk bukan bagian tier bawah, tapi trial membuka semua
	assert.True(t, EvaluateTenant(tn, constants.CapabilityBiometricCheckin, 0, now).Allowed)
	assert.True(t, EvaluateTenant(tn, constants.CapabilityKioskMode, 0, now).Allowed)
	// limit member juga tidak berlaku selama trial
	assert.True(t, EvaluateTenant(tn, constants.CapabilityAddMember, 5000, now).Allowed)
}

func TestEvaluateTenant_ExpiredTrialFallsBackToMatrix(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, -16)

	tn := tenantWithTier(constants.TierTrial)
	tn.TenantTrialStartsAt = &start
	tn.TenantTrialEndsAt = &end

	d := EvaluateTenant(tn, constants.CapabilityBiometricCheckin, 0, now)
	assert.False(t, d.Allowed)
}

func TestEvaluateTenant_StarterMemberLimit(t *testing.T) {
	tn := tenantWithTier(constants.TierStarter)

	// member ke-100 masih muat (usage 99)
	assert.True(t, EvaluateTenant(tn, constants.CapabilityAddMember, 99, time.Now()).Allowed)

	// member ke-101 ditolak dengan limit di Decision untuk upgrade prompt
	d := EvaluateTenant(tn, constants.CapabilityAddMember, 100, time.Now())
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(100), d.Limit)
	assert.NotEmpty(t, d.Reason)
}

func TestEvaluateTenant_MaxMembersOverrideWins(t *testing.T) {
	override := int64(250)
	tn := tenantWithTier(constants.TierStarter)
	tn.TenantMaxMembers = &override

	assert.True(t, EvaluateTenant(tn, constants.CapabilityAddMember, 200, time.Now()).Allowed)

	d := EvaluateTenant(tn, constants.CapabilityAddMember, 250, time.Now())
	assert.False(t, d.Allowed)
	assert.Equal(t, override, d.Limit)
}

func TestEvaluateTenant_GrowthUnlimitedMembers(t *testing.T) {
	tn := tenantWithTier(constants.TierGrowth)
	assert.True(t, EvaluateTenant(tn, constants.CapabilityAddMember, 100000, time.Now()).Allowed)
}

func TestEvaluateTenant_TierCapabilityMatrix(t *testing.T) {
	starter := tenantWithTier(constants.TierStarter)
	growth := tenantWithTier(constants.TierGrowth)
	enterprise := tenantWithTier(constants.TierEnterprise)
	now := time.Now()

	assert.True(t, EvaluateTenant(starter, constants.CapabilityCheckin, 0, now).Allowed)
	assert.False(t, EvaluateTenant(starter, constants.CapabilityExternalCheckin, 0, now).Allowed)
	assert.False(t, EvaluateTenant(starter, constants.CapabilityBulkImport, 0, now).Allowed)

	assert.True(t, EvaluateTenant(growth, constants.CapabilityExternalCheckin, 0, now).Allowed)
	assert.True(t, EvaluateTenant(growth, constants.CapabilityBiometricCheckin, 0, now).Allowed)
	assert.False(t, EvaluateTenant(growth, constants.CapabilityKioskMode, 0, now).Allowed)

	assert.True(t, EvaluateTenant(enterprise, constants.CapabilityKioskMode, 0, now).Allowed)
}
