package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerejaku_backend/internals/features/attendance/followup/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	notif "gerejaku_backend/internals/features/notifications/service"
)

/* =========================================================
   Fakes
========================================================= */

type fakeFollowUpStore struct {
	tenantIDs      []uuid.UUID
	members        map[uuid.UUID]*memberModel.MemberModel
	followUps      map[uuid.UUID]*model.FollowUpModel // keyed by member id
	lastAttendance map[uuid.UUID]*time.Time
}

func newFakeFollowUpStore() *fakeFollowUpStore {
	return &fakeFollowUpStore{
		members:        map[uuid.UUID]*memberModel.MemberModel{},
		followUps:      map[uuid.UUID]*model.FollowUpModel{},
		lastAttendance: map[uuid.UUID]*time.Time{},
	}
}

func (f *fakeFollowUpStore) ListTenantIDs(_ context.Context) ([]uuid.UUID, error) {
	return f.tenantIDs, nil
}

func (f *fakeFollowUpStore) ListCurrentMembers(_ context.Context, tenantID uuid.UUID) ([]memberModel.MemberModel, error) {
	var out []memberModel.MemberModel
	for _, m := range f.members {
		if m.MemberTenantID == tenantID && m.MemberIsCurrent {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeFollowUpStore) GetMember(_ context.Context, tenantID, memberID uuid.UUID) (*memberModel.MemberModel, error) {
	m, ok := f.members[memberID]
	if !ok || m.MemberTenantID != tenantID || !m.MemberIsCurrent {
		return nil, errors.New("tidak ada")
	}
	return m, nil
}

func (f *fakeFollowUpStore) EnsureFollowUp(_ context.Context, tenantID, memberID uuid.UUID) (*model.FollowUpModel, error) {
	if fu, ok := f.followUps[memberID]; ok {
		return fu, nil
	}
	fu := &model.FollowUpModel{
		FollowUpID:       uuid.New(),
		FollowUpTenantID: tenantID,
		FollowUpMemberID: memberID,
	}
	f.followUps[memberID] = fu
	return fu, nil
}

func (f *fakeFollowUpStore) SaveFollowUp(_ context.Context, fu *model.FollowUpModel) error {
	f.followUps[fu.FollowUpMemberID] = fu
	return nil
}

func (f *fakeFollowUpStore) LastAttendanceAt(_ context.Context, _, memberID uuid.UUID) (*time.Time, error) {
	return f.lastAttendance[memberID], nil
}

type sentMessage struct {
	Channel   notif.Channel
	Recipient string
	Content   string
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, _ uuid.UUID, channel notif.Channel, recipient, content string) error {
	f.sent = append(f.sent, sentMessage{Channel: channel, Recipient: recipient, Content: content})
	return f.err
}

/* =========================================================
   Fixtures
========================================================= */

func seedFollowUpMember(f *fakeFollowUpStore, tenantID uuid.UUID, first string) *memberModel.MemberModel {
	phone := "+628111234567"
	email := first + "@contoh.id"
	m := &memberModel.MemberModel{
		MemberID:        uuid.New(),
		MemberTenantID:  tenantID,
		MemberFirstName: first,
		MemberGender:    memberModel.GenderFemale,
		MemberAgeGroup:  memberModel.AgeGroupAdult,
		MemberPhone:     &phone,
		MemberEmail:     &email,
		MemberIsCurrent: true,
	}
	f.members[m.MemberID] = m
	return m
}

func serviceWithClock(store FollowUpStore, notifier Notifier, threshold int, at time.Time) *FollowUpService {
	svc := NewFollowUpService(store, notifier, threshold)
	svc.now = func() time.Time { return at }
	return svc
}

/* =========================================================
   ScanTenant
========================================================= */

func TestScanTenant_ThresholdCrossingFlagsMember(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")

	base := time.Date(2025, 5, 4, 2, 0, 0, 0, time.UTC)
	var svc *FollowUpService

	// tiga scan mingguan tanpa kehadiran
	for week := 0; week < 3; week++ {
		svc = serviceWithClock(f, nil, 3, base.AddDate(0, 0, 7*week))
		sum, err := svc.ScanTenant(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, 1, sum.MembersScanned)
		assert.Equal(t, 1, sum.Incremented)
		if week < 2 {
			assert.Equal(t, 0, sum.FlaggedNew, "minggu ke-%d belum lewat ambang", week+1)
		} else {
			assert.Equal(t, 1, sum.FlaggedNew)
		}
	}

	fu := f.followUps[m.MemberID]
	assert.Equal(t, 3, fu.FollowUpConsecutiveAbsences)
	assert.True(t, fu.FollowUpNeedsFollowUp)
}

func TestScanTenant_AlreadyFlaggedNotCountedAgain(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	f.followUps[m.MemberID] = &model.FollowUpModel{
		FollowUpID:                  uuid.New(),
		FollowUpTenantID:            tenantID,
		FollowUpMemberID:            m.MemberID,
		FollowUpConsecutiveAbsences: 5,
		FollowUpNeedsFollowUp:       true,
	}

	svc := serviceWithClock(f, nil, 3, time.Now())
	sum, err := svc.ScanTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Incremented)
	assert.Equal(t, 0, sum.FlaggedNew)
	assert.Equal(t, 6, f.followUps[m.MemberID].FollowUpConsecutiveAbsences)
}

func TestScanTenant_AttendanceSinceLastScanResets(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")

	lastScan := time.Date(2025, 5, 4, 2, 0, 0, 0, time.UTC)
	f.followUps[m.MemberID] = &model.FollowUpModel{
		FollowUpID:                  uuid.New(),
		FollowUpTenantID:            tenantID,
		FollowUpMemberID:            m.MemberID,
		FollowUpConsecutiveAbsences: 4,
		FollowUpNeedsFollowUp:       true,
		FollowUpLastScannedAt:       &lastScan,
	}
	attended := lastScan.AddDate(0, 0, 3)
	f.lastAttendance[m.MemberID] = &attended

	svc := serviceWithClock(f, nil, 3, lastScan.AddDate(0, 0, 7))
	sum, err := svc.ScanTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Incremented)

	fu := f.followUps[m.MemberID]
	assert.Equal(t, 0, fu.FollowUpConsecutiveAbsences)
	assert.False(t, fu.FollowUpNeedsFollowUp)
}

func TestScanTenant_AttendanceLaterSameDayAsScanCounts(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")

	// scan jam 02:00, jemaat hadir jam 10:00 di hari yang sama —
	// wajib terhitung hadir pada scan berikutnya
	lastScan := time.Date(2025, 5, 4, 2, 0, 0, 0, time.UTC)
	f.followUps[m.MemberID] = &model.FollowUpModel{
		FollowUpID:                  uuid.New(),
		FollowUpTenantID:            tenantID,
		FollowUpMemberID:            m.MemberID,
		FollowUpConsecutiveAbsences: 2,
		FollowUpLastScannedAt:       &lastScan,
	}
	attended := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	f.lastAttendance[m.MemberID] = &attended

	svc := serviceWithClock(f, nil, 3, lastScan.AddDate(0, 0, 7))
	sum, err := svc.ScanTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Incremented)
	assert.Equal(t, 0, f.followUps[m.MemberID].FollowUpConsecutiveAbsences)
	assert.False(t, f.followUps[m.MemberID].FollowUpNeedsFollowUp)
}

func TestScanTenant_OldAttendanceStillCountsAsAbsent(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")

	lastScan := time.Date(2025, 5, 4, 2, 0, 0, 0, time.UTC)
	f.followUps[m.MemberID] = &model.FollowUpModel{
		FollowUpID:            uuid.New(),
		FollowUpTenantID:      tenantID,
		FollowUpMemberID:      m.MemberID,
		FollowUpLastScannedAt: &lastScan,
	}
	// hadir terakhir SEBELUM scan terakhir — tetap dihitung absen
	old := lastScan.AddDate(0, 0, -10)
	f.lastAttendance[m.MemberID] = &old

	svc := serviceWithClock(f, nil, 3, lastScan.AddDate(0, 0, 7))
	sum, err := svc.ScanTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Incremented)
	assert.Equal(t, 1, f.followUps[m.MemberID].FollowUpConsecutiveAbsences)
}

func TestScanTenant_RetiredMembersIgnored(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	retired := seedFollowUpMember(f, tenantID, "Pensiun")
	retired.MemberIsCurrent = false
	seedFollowUpMember(f, tenantID, "Aktif")

	svc := serviceWithClock(f, nil, 3, time.Now())
	sum, err := svc.ScanTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.MembersScanned)
	assert.NotContains(t, f.followUps, retired.MemberID)
}

func TestScanTenant_StampsLastScannedAt(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")

	at := time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC)
	svc := serviceWithClock(f, nil, 3, at)
	_, err := svc.ScanTenant(context.Background(), tenantID)
	require.NoError(t, err)

	fu := f.followUps[m.MemberID]
	require.NotNil(t, fu.FollowUpLastScannedAt)
	assert.True(t, fu.FollowUpLastScannedAt.Equal(at))
}

/* =========================================================
   RecordContact
========================================================= */

func TestRecordContact_ClearsFlagKeepsCounter(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	f.followUps[m.MemberID] = &model.FollowUpModel{
		FollowUpID:                  uuid.New(),
		FollowUpTenantID:            tenantID,
		FollowUpMemberID:            m.MemberID,
		FollowUpConsecutiveAbsences: 4,
		FollowUpNeedsFollowUp:       true,
	}

	at := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	svc := serviceWithClock(f, &fakeNotifier{}, 3, at)

	fu, err := svc.RecordContact(context.Background(), tenantID, m.MemberID, model.ContactCall, "")
	require.NoError(t, err)

	assert.False(t, fu.FollowUpNeedsFollowUp)
	assert.Equal(t, 4, fu.FollowUpConsecutiveAbsences, "dikontak bukan berarti hadir")
	require.NotNil(t, fu.FollowUpLastContactAt)
	assert.True(t, fu.FollowUpLastContactAt.Equal(at))
	require.NotNil(t, fu.FollowUpLastContactMethod)
	assert.Equal(t, model.ContactCall, *fu.FollowUpLastContactMethod)
}

func TestRecordContact_SMSSendsToPhone(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	n := &fakeNotifier{}

	svc := serviceWithClock(f, n, 3, time.Now())
	_, err := svc.RecordContact(context.Background(), tenantID, m.MemberID, model.ContactSMS, "Kami merindukan kehadiran Anda")
	require.NoError(t, err)

	require.Len(t, n.sent, 1)
	assert.Equal(t, notif.ChannelSMS, n.sent[0].Channel)
	assert.Equal(t, *m.MemberPhone, n.sent[0].Recipient)
	assert.Equal(t, "Kami merindukan kehadiran Anda", n.sent[0].Content)
}

func TestRecordContact_EmailSendsToEmail(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	n := &fakeNotifier{}

	svc := serviceWithClock(f, n, 3, time.Now())
	_, err := svc.RecordContact(context.Background(), tenantID, m.MemberID, model.ContactEmail, "Shalom!")
	require.NoError(t, err)

	require.Len(t, n.sent, 1)
	assert.Equal(t, notif.ChannelEmail, n.sent[0].Channel)
	assert.Equal(t, *m.MemberEmail, n.sent[0].Recipient)
}

func TestRecordContact_CallNeverNotifies(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	n := &fakeNotifier{}

	svc := serviceWithClock(f, n, 3, time.Now())
	_, err := svc.RecordContact(context.Background(), tenantID, m.MemberID, model.ContactCall, "catatan internal")
	require.NoError(t, err)
	assert.Empty(t, n.sent)
}

func TestRecordContact_EmptyMessageSkipsNotifier(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	n := &fakeNotifier{}

	svc := serviceWithClock(f, n, 3, time.Now())
	_, err := svc.RecordContact(context.Background(), tenantID, m.MemberID, model.ContactSMS, "")
	require.NoError(t, err)
	assert.Empty(t, n.sent)
}

func TestRecordContact_NotifyFailureStillRecords(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	n := &fakeNotifier{err: errors.New("provider mati")}

	svc := serviceWithClock(f, n, 3, time.Now())
	fu, err := svc.RecordContact(context.Background(), tenantID, m.MemberID, model.ContactSMS, "halo")
	require.NoError(t, err)
	assert.NotNil(t, fu.FollowUpLastContactAt)
}

func TestRecordContact_MemberWithoutPhoneSkipsSMS(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()
	m := seedFollowUpMember(f, tenantID, "Lina")
	m.MemberPhone = nil
	n := &fakeNotifier{}

	svc := serviceWithClock(f, n, 3, time.Now())
	_, err := svc.RecordContact(context.Background(), tenantID, m.MemberID, model.ContactSMS, "halo")
	require.NoError(t, err)
	assert.Empty(t, n.sent)
}

func TestRecordContact_UnknownMember(t *testing.T) {
	f := newFakeFollowUpStore()
	tenantID := uuid.New()

	svc := serviceWithClock(f, &fakeNotifier{}, 3, time.Now())
	_, err := svc.RecordContact(context.Background(), tenantID, uuid.New(), model.ContactCall, "")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

/* =========================================================
   Konstruksi
========================================================= */

func TestNewFollowUpService_ThresholdFallback(t *testing.T) {
	svc := NewFollowUpService(newFakeFollowUpStore(), nil, 0)
	assert.Equal(t, DefaultAbsenceThreshold, svc.threshold)
}
