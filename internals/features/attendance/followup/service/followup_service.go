// internals/features/attendance/followup/service/followup_service.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"gerejaku_backend/internals/features/attendance/followup/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	notif "gerejaku_backend/internals/features/notifications/service"
)

var ErrMemberNotFound = errors.New("member tidak ditemukan")

// FollowUpStore: storage sempit untuk tracker, tenant-scoped.
type FollowUpStore interface {
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
	ListCurrentMembers(ctx context.Context, tenantID uuid.UUID) ([]memberModel.MemberModel, error)
	GetMember(ctx context.Context, tenantID, memberID uuid.UUID) (*memberModel.MemberModel, error)

	// EnsureFollowUp: ambil baris follow-up member, buat lazy kalau belum ada.
	EnsureFollowUp(ctx context.Context, tenantID, memberID uuid.UUID) (*model.FollowUpModel, error)
	SaveFollowUp(ctx context.Context, fu *model.FollowUpModel) error

	// LastAttendanceAt: tanggal kehadiran terakhir member (nil = belum pernah).
	LastAttendanceAt(ctx context.Context, tenantID, memberID uuid.UUID) (*time.Time, error)
}

// Notifier: kontrak pengiriman keluar (lihat features/notifications).
type Notifier interface {
	Send(ctx context.Context, tenantID uuid.UUID, channel notif.Channel, recipient, content string) error
}

// FollowUpService: menurunkan state "needs follow-up" dari hitungan absen
// beruntun. Decision engine menolkan counter saat kehadiran diterima;
// scan di sini hanya menaikkan.
type FollowUpService struct {
	store     FollowUpStore
	notifier  Notifier
	threshold int
	now       func() time.Time
}

// DefaultAbsenceThreshold: jumlah siklus absen sebelum perlu follow-up.
const DefaultAbsenceThreshold = 3

func NewFollowUpService(store FollowUpStore, notifier Notifier, threshold int) *FollowUpService {
	if threshold <= 0 {
		threshold = DefaultAbsenceThreshold
	}
	return &FollowUpService{store: store, notifier: notifier, threshold: threshold, now: time.Now}
}

type ScanSummary struct {
	MembersScanned int `json:"members_scanned"`
	Incremented    int `json:"incremented"`
	FlaggedNew     int `json:"flagged_new"`
}

// ScanTenant memproses semua member current satu tenant. Dipanggil oleh
// scheduler atau on-demand oleh admin.
func (s *FollowUpService) ScanTenant(ctx context.Context, tenantID uuid.UUID) (*ScanSummary, error) {
	members, err := s.store.ListCurrentMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summary := &ScanSummary{}
	scanTime := s.now()

	for i := range members {
		m := &members[i]
		fu, err := s.store.EnsureFollowUp(ctx, tenantID, m.MemberID)
		if err != nil {
			log.Printf("[FOLLOWUP] ensure member=%s err: %v", m.MemberID, err)
			continue
		}

		last, err := s.store.LastAttendanceAt(ctx, tenantID, m.MemberID)
		if err != nil {
			log.Printf("[FOLLOWUP] last attendance member=%s err: %v", m.MemberID, err)
			continue
		}

		// Hadir sejak scan terakhir? Engine sudah menolkan saat acceptance,
		// tapi scan tetap idempoten terhadap fakta kehadiran.
		attended := last != nil &&
			(fu.FollowUpLastScannedAt == nil || last.After(*fu.FollowUpLastScannedAt))

		if attended {
			fu.FollowUpConsecutiveAbsences = 0
			fu.FollowUpNeedsFollowUp = false
		} else {
			fu.FollowUpConsecutiveAbsences++
			summary.Incremented++
			if fu.FollowUpConsecutiveAbsences >= s.threshold && !fu.FollowUpNeedsFollowUp {
				fu.FollowUpNeedsFollowUp = true
				summary.FlaggedNew++
			}
		}

		fu.FollowUpLastScannedAt = &scanTime
		if err := s.store.SaveFollowUp(ctx, fu); err != nil {
			log.Printf("[FOLLOWUP] save member=%s err: %v", m.MemberID, err)
			continue
		}
		summary.MembersScanned++
	}

	return summary, nil
}

// ScanAll: semua tenant (dipanggil scheduler).
func (s *FollowUpService) ScanAll(ctx context.Context) {
	tenantIDs, err := s.store.ListTenantIDs(ctx)
	if err != nil {
		log.Printf("[FOLLOWUP] list tenants err: %v", err)
		return
	}
	for _, id := range tenantIDs {
		if sum, err := s.ScanTenant(ctx, id); err != nil {
			log.Printf("[FOLLOWUP] scan tenant=%s err: %v", id, err)
		} else {
			log.Printf("[FOLLOWUP] tenant=%s scanned=%d incremented=%d flagged=%d",
				id, sum.MembersScanned, sum.Incremented, sum.FlaggedNew)
		}
	}
}

// RecordContact mencatat kontak follow-up: set last-contact, clear flag,
// TANPA menyentuh counter (dikontak bukan berarti hadir). Pengiriman
// notifikasi best-effort; gagal kirim tidak membatalkan pencatatan.
func (s *FollowUpService) RecordContact(ctx context.Context, tenantID, memberID uuid.UUID, method model.ContactMethod, message string) (*model.FollowUpModel, error) {
	m, err := s.store.GetMember(ctx, tenantID, memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	fu, err := s.store.EnsureFollowUp(ctx, tenantID, memberID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fu.FollowUpLastContactAt = &now
	fu.FollowUpLastContactMethod = &method
	fu.FollowUpNeedsFollowUp = false

	if err := s.store.SaveFollowUp(ctx, fu); err != nil {
		return nil, err
	}

	// Side effect setelah state tersimpan
	if s.notifier != nil && message != "" {
		switch method {
		case model.ContactSMS:
			if m.MemberPhone != nil {
				if err := s.notifier.Send(ctx, tenantID, notif.ChannelSMS, *m.MemberPhone, message); err != nil {
					log.Printf("[FOLLOWUP] kirim sms member=%s err: %v", memberID, err)
				}
			}
		case model.ContactEmail:
			if m.MemberEmail != nil {
				if err := s.notifier.Send(ctx, tenantID, notif.ChannelEmail, *m.MemberEmail, message); err != nil {
					log.Printf("[FOLLOWUP] kirim email member=%s err: %v", memberID, err)
				}
			}
		}
	}

	return fu, nil
}
