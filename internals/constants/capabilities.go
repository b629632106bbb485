package constants

// =========================================================
// Subscription tier & capability matrix
//
// Sumber kebenaran tunggal untuk feature-gating per tier.
// Trial aktif = semua capability terbuka (di-handle oleh
// policy service, bukan di matrix ini).
// =========================================================

type SubscriptionTier string

const (
	TierTrial      SubscriptionTier = "trial"
	TierStarter    SubscriptionTier = "starter"
	TierGrowth     SubscriptionTier = "growth"
	TierEnterprise SubscriptionTier = "enterprise"
	TierSuspended  SubscriptionTier = "suspended"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierTrial, TierStarter, TierGrowth, TierEnterprise, TierSuspended:
		return true
	}
	return false
}

type Capability string

const (
	CapabilityCheckin           Capability = "checkin" // check-in dasar (manual/visitor)
	CapabilityAddMember         Capability = "add_member" // capacity-bounded
	CapabilityBiometricCheckin  Capability = "biometric_checkin"
	CapabilityFamilyCheckin     Capability = "family_checkin"
	CapabilityExternalCheckin   Capability = "external_checkin"
	CapabilityBulkImport        Capability = "bulk_import"
	CapabilitySendSMS           Capability = "send_sms"
	CapabilitySendEmail         Capability = "send_email"
	CapabilityKioskMode         Capability = "kiosk_mode"
	CapabilityHistoricalEntry   Capability = "historical_entry"
	CapabilityFollowUpTracking  Capability = "follow_up_tracking"
)

// capabilityMatrix: capability → tier yang boleh.
// Tier yang tidak tercantum = Denied.
var capabilityMatrix = map[Capability][]SubscriptionTier{
	CapabilityCheckin:          {TierStarter, TierGrowth, TierEnterprise},
	CapabilityAddMember:        {TierStarter, TierGrowth, TierEnterprise},
	CapabilityBiometricCheckin: {TierGrowth, TierEnterprise},
	CapabilityFamilyCheckin:    {TierStarter, TierGrowth, TierEnterprise},
	CapabilityExternalCheckin:  {TierGrowth, TierEnterprise},
	CapabilityBulkImport:       {TierGrowth, TierEnterprise},
	CapabilitySendSMS:          {TierGrowth, TierEnterprise},
	CapabilitySendEmail:        {TierStarter, TierGrowth, TierEnterprise},
	CapabilityKioskMode:        {TierEnterprise},
	CapabilityHistoricalEntry:  {TierStarter, TierGrowth, TierEnterprise},
	CapabilityFollowUpTracking: {TierStarter, TierGrowth, TierEnterprise},
}

// TierAllowsCapability cek matrix statis (tanpa trial override).
func TierAllowsCapability(tier SubscriptionTier, cap Capability) bool {
	for _, t := range capabilityMatrix[cap] {
		if t == tier {
			return true
		}
	}
	return false
}

// MemberLimitUnlimited menandakan tidak ada batas member.
const MemberLimitUnlimited int64 = 0

// memberLimitByTier: batas jumlah member per tier (0 = unlimited).
// Tier suspended tidak ada di sini: policy service menolak semua
// mutasi untuk tenant suspended sebelum sampai ke pengecekan limit.
var memberLimitByTier = map[SubscriptionTier]int64{
	TierTrial:      MemberLimitUnlimited,
	TierStarter:    100,
	TierGrowth:     MemberLimitUnlimited,
	TierEnterprise: MemberLimitUnlimited,
}

func MemberLimitForTier(tier SubscriptionTier) int64 {
	return memberLimitByTier[tier]
}
