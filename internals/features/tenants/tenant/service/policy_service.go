// internals/features/tenants/tenant/service/policy_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
)

// Decision: hasil evaluasi policy. Denied itu outcome yang diharapkan
// (bukan error) — caller harus bisa merender upgrade prompt dari Limit.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	// Limit terisi untuk capability yang dibatasi kapasitas (0 kalau tidak relevan)
	Limit int64 `json:"limit,omitempty"`
}

func Allowed() Decision {
	return Decision{Allowed: true}
}

func Denied(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func DeniedWithLimit(reason string, limit int64) Decision {
	return Decision{Allowed: false, Reason: reason, Limit: limit}
}

// PolicyService: evaluator read-only, tanpa side effect. Dipanggil
// sebelum setiap mutasi di decision engine dan sebelum pembuatan member.
type PolicyService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{DB: db, Now: time.Now}
}

// EvaluateTenant: inti matrix + trial override, murni terhadap input.
// Trial aktif membuka semua capability terlepas dari matrix; suspended
// menutup semuanya.
func EvaluateTenant(t *tenantModel.TenantModel, cap constants.Capability, currentUsage int64, now time.Time) Decision {
	if t == nil {
		// fail closed: tenant tidak ketemu = Denied, jangan pernah fail open
		return Denied("tenant tidak ditemukan")
	}

	if t.TenantTier == constants.TierSuspended {
		return Denied("tenant sedang disuspend")
	}

	trial := t.TrialActive(now)
	if !trial && !constants.TierAllowsCapability(t.TenantTier, cap) {
		return Denied(fmt.Sprintf("fitur %s tidak tersedia di paket %s", cap, t.TenantTier))
	}

	// Capability berkapasitas: bandingkan usage dengan limit tier/override
	if cap == constants.CapabilityAddMember && !trial {
		limit := t.EffectiveMemberLimit()
		if limit != constants.MemberLimitUnlimited && currentUsage >= limit {
			return DeniedWithLimit(
				fmt.Sprintf("batas %d member untuk paket %s sudah tercapai", limit, t.TenantTier),
				limit,
			)
		}
	}

	return Allowed()
}

// Authorize memuat tenant lalu mengevaluasi. Kegagalan lookup apa pun
// diperlakukan Denied (fail closed).
func (s *PolicyService) Authorize(ctx context.Context, tenantID uuid.UUID, cap constants.Capability, currentUsage int64) Decision {
	var t tenantModel.TenantModel
	if err := s.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Take(&t).Error; err != nil {
		return Denied("tenant tidak ditemukan")
	}
	return EvaluateTenant(&t, cap, currentUsage, s.Now())
}

// AuthorizeAddMember: shortcut yang sekalian menghitung usage saat ini.
func (s *PolicyService) AuthorizeAddMember(ctx context.Context, tenantID uuid.UUID) Decision {
	count, err := s.CountMembers(ctx, tenantID)
	if err != nil {
		return Denied("gagal menghitung jumlah member")
	}
	return s.Authorize(ctx, tenantID, constants.CapabilityAddMember, count)
}

// CountMembers: hanya member current yang dihitung terhadap limit.
func (s *PolicyService) CountMembers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&memberModel.MemberModel{}).
		Where("member_tenant_id = ? AND member_is_current = TRUE", tenantID).
		Count(&count).Error
	return count, err
}
