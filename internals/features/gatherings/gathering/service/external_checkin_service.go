// internals/features/gatherings/gathering/service/external_checkin_service.go
package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	checkinService "gerejaku_backend/internals/features/attendance/checkin/service"
	"gerejaku_backend/internals/features/gatherings/gathering/model"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
)

// ErrCheckinUnavailable: satu pesan generik untuk semua kegagalan publik
// (URL tidak dikenal / disabled / PIN salah) supaya tidak jadi oracle
// buat brute-force PIN.
var ErrCheckinUnavailable = errors.New("PIN salah atau check-in tidak tersedia")

var ErrGatheringNotFound = errors.New("gathering tidak ditemukan")

// GatewayStore: storage sempit untuk gateway, tenant-scoped di sisi admin,
// token-scoped di sisi publik.
type GatewayStore interface {
	GetGathering(ctx context.Context, tenantID, gatheringID uuid.UUID) (*model.GatheringModel, error)
	FindGatheringByURLToken(ctx context.Context, token string) (*model.GatheringModel, error)
	SaveExternalCheckin(ctx context.Context, g *model.GatheringModel) error
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*tenantModel.TenantModel, error)
}

// ExternalCheckinService: siklus Disabled → Enabled(url, pin) → Disabled.
// Setiap enable me-regenerate DUA-DUANYA; link/PIN lama langsung mati
// begitu disable atau enable ulang.
type ExternalCheckinService struct {
	store   GatewayStore
	checkin *checkinService.CheckinService
	now     func() time.Time
}

func NewExternalCheckinService(store GatewayStore, checkin *checkinService.CheckinService) *ExternalCheckinService {
	return &ExternalCheckinService{store: store, checkin: checkin, now: time.Now}
}

/* =========================================================
   Secret generation
========================================================= */

const urlTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const urlTokenLength = 16

// GenerateURLToken: 16 karakter alfanumerik acak (identitas publik
// gathering, efektif tidak bisa ditebak).
func GenerateURLToken() (string, error) {
	b := make([]byte, urlTokenLength)
	max := big.NewInt(int64(len(urlTokenAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = urlTokenAlphabet[n.Int64()]
	}
	return string(b), nil
}

// GeneratePIN: 6 digit numerik, leading zero sah.
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

/* =========================================================
   Admin operations
========================================================= */

// Enable mengaktifkan external check-in dan SELALU membuat pasangan
// token+PIN baru, termasuk saat sudah enabled (rotasi paksa).
func (s *ExternalCheckinService) Enable(ctx context.Context, tenantID, gatheringID uuid.UUID) (*model.GatheringModel, error) {
	g, err := s.store.GetGathering(ctx, tenantID, gatheringID)
	if err != nil {
		if err == checkinService.ErrNotFound {
			return nil, ErrGatheringNotFound
		}
		return nil, err
	}

	token, err := GenerateURLToken()
	if err != nil {
		return nil, err
	}
	pin, err := GeneratePIN()
	if err != nil {
		return nil, err
	}

	now := s.now()
	g.GatheringExternalEnabled = true
	g.GatheringExternalURLToken = &token
	g.GatheringExternalPIN = &pin
	g.GatheringExternalEnabledAt = &now

	if err := s.store.SaveExternalCheckin(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Disable mematikan external check-in dan mengosongkan kedua secret.
func (s *ExternalCheckinService) Disable(ctx context.Context, tenantID, gatheringID uuid.UUID) (*model.GatheringModel, error) {
	g, err := s.store.GetGathering(ctx, tenantID, gatheringID)
	if err != nil {
		if err == checkinService.ErrNotFound {
			return nil, ErrGatheringNotFound
		}
		return nil, err
	}

	g.GatheringExternalEnabled = false
	g.GatheringExternalURLToken = nil
	g.GatheringExternalPIN = nil
	g.GatheringExternalEnabledAt = nil

	if err := s.store.SaveExternalCheckin(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

/* =========================================================
   Public operations
========================================================= */

// PublicGatheringInfo: metadata display non-sensitif; PIN tidak pernah ikut.
type PublicGatheringInfo struct {
	GatheringName string  `json:"gathering_name"`
	GatheringType string  `json:"gathering_type"`
	Location      *string `json:"location,omitempty"`
	TenantName    string  `json:"tenant_name"`
	BrandColor    string  `json:"brand_color,omitempty"`
	PINRequired   bool    `json:"pin_required"`
}

// lookupEnabled: token → gathering enabled+aktif, selain itu generik.
func (s *ExternalCheckinService) lookupEnabled(ctx context.Context, token string) (*model.GatheringModel, error) {
	token = strings.TrimSpace(token)
	if len(token) != urlTokenLength {
		return nil, ErrCheckinUnavailable
	}
	g, err := s.store.FindGatheringByURLToken(ctx, token)
	if err != nil {
		if err == checkinService.ErrNotFound {
			return nil, ErrCheckinUnavailable
		}
		return nil, err
	}
	if !g.GatheringExternalEnabled || !g.GatheringIsActive || g.GatheringExternalPIN == nil {
		return nil, ErrCheckinUnavailable
	}
	return g, nil
}

func (s *ExternalCheckinService) PublicInfo(ctx context.Context, token string) (*PublicGatheringInfo, error) {
	g, err := s.lookupEnabled(ctx, token)
	if err != nil {
		return nil, err
	}

	info := &PublicGatheringInfo{
		GatheringName: g.GatheringName,
		GatheringType: g.GatheringType,
		Location:      g.GatheringLocation,
		PINRequired:   true,
	}
	if t, err := s.store.GetTenant(ctx, g.GatheringTenantID); err == nil && t != nil {
		info.TenantName = t.TenantName
		info.BrandColor = brandColor(t)
	}
	return info, nil
}

// Submit: validasi token+PIN lalu serahkan ke decision engine persis
// seperti check-in staf dengan method external. Member lintas tenant
// tidak akan ketemu di engine (lookup member tenant-scoped) dan berakhir
// rejected di sana.
func (s *ExternalCheckinService) Submit(ctx context.Context, token, pin string, memberID uuid.UUID) (*checkinService.CheckInResult, error) {
	g, err := s.lookupEnabled(ctx, token)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(pin)), []byte(*g.GatheringExternalPIN)) != 1 {
		return nil, ErrCheckinUnavailable
	}

	gid := g.GatheringID
	result, err := s.checkin.CheckIn(ctx, checkinService.CheckInInput{
		TenantID:    g.GatheringTenantID,
		GatheringID: &gid,
		Person:      checkinService.PersonReference{MemberID: &memberID},
		Method:      "external",
	})
	if err != nil {
		return nil, err
	}
	if result.Outcome == checkinService.OutcomeRejected {
		// jangan bocorkan alasan internal ke jalur publik
		return nil, ErrCheckinUnavailable
	}
	return result, nil
}

// brandColor membaca "brand_color" dari tenant_settings (jsonb).
func brandColor(t *tenantModel.TenantModel) string {
	if len(t.TenantSettings) == 0 {
		return ""
	}
	var settings map[string]any
	if err := sonic.Unmarshal(t.TenantSettings, &settings); err != nil {
		return ""
	}
	if v, ok := settings["brand_color"].(string); ok {
		return v
	}
	return ""
}
