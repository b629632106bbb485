package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/attendance/checkin/model"
	gatheringModel "gerejaku_backend/internals/features/gatherings/gathering/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/members/visitor/model"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
)

/* =========================================================
   In-memory fake store
========================================================= */

type fakeStore struct {
	mu sync.Mutex

	tenants    map[uuid.UUID]*tenantModel.TenantModel
	gatherings map[uuid.UUID]*gatheringModel.GatheringModel
	members    map[uuid.UUID]*memberModel.MemberModel
	visitors   map[uuid.UUID]*visitorModel.VisitorModel

	// key uniqueness → record
	attendance map[string]*model.AttendanceRecordModel

	followUpResets []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenants:    map[uuid.UUID]*tenantModel.TenantModel{},
		gatherings: map[uuid.UUID]*gatheringModel.GatheringModel{},
		members:    map[uuid.UUID]*memberModel.MemberModel{},
		visitors:   map[uuid.UUID]*visitorModel.VisitorModel{},
		attendance: map[string]*model.AttendanceRecordModel{},
	}
}

func attendanceKey(rec *model.AttendanceRecordModel) string {
	g := "none"
	if rec.AttendanceGatheringID != nil {
		g = rec.AttendanceGatheringID.String()
	}
	p := ""
	if rec.AttendanceMemberID != nil {
		p = "m:" + rec.AttendanceMemberID.String()
	} else if rec.AttendanceVisitorID != nil {
		p = "v:" + rec.AttendanceVisitorID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		rec.AttendanceTenantID, g, p, rec.AttendanceDate.Format("2006-01-02"))
}

func (f *fakeStore) GetTenant(_ context.Context, tenantID uuid.UUID) (*tenantModel.TenantModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) GetGathering(_ context.Context, tenantID, gatheringID uuid.UUID) (*gatheringModel.GatheringModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gatherings[gatheringID]
	if !ok || g.GatheringTenantID != tenantID {
		return nil, ErrNotFound
	}
	return g, nil
}

func (f *fakeStore) GetMember(_ context.Context, tenantID, memberID uuid.UUID) (*memberModel.MemberModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberID]
	if !ok || m.MemberTenantID != tenantID || !m.MemberIsCurrent {
		return nil, ErrNotFound
	}
	return m, nil
}

func (f *fakeStore) FindMemberByBiometricToken(_ context.Context, tenantID uuid.UUID, token string) (*memberModel.MemberModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.MemberTenantID == tenantID && m.MemberIsCurrent &&
			m.MemberBiometricToken != nil && *m.MemberBiometricToken == token {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListFamilyChildren(_ context.Context, tenantID, familyGroupID uuid.UUID) ([]memberModel.MemberModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []memberModel.MemberModel
	for _, m := range f.members {
		if m.MemberTenantID == tenantID && m.MemberIsCurrent && !m.MemberIsFamilyHead &&
			m.MemberFamilyGroupID != nil && *m.MemberFamilyGroupID == familyGroupID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateVisitor(_ context.Context, v *visitorModel.VisitorModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.VisitorID == uuid.Nil {
		v.VisitorID = uuid.New()
	}
	f.visitors[v.VisitorID] = v
	return nil
}

func (f *fakeStore) InsertAttendanceIfAbsent(_ context.Context, rec *model.AttendanceRecordModel) (bool, *model.AttendanceRecordModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attendanceKey(rec)
	if existing, ok := f.attendance[key]; ok {
		return false, existing, nil
	}
	if rec.AttendanceID == uuid.Nil {
		rec.AttendanceID = uuid.New()
	}
	f.attendance[key] = rec
	return true, nil, nil
}

func (f *fakeStore) ResetFollowUp(_ context.Context, _, memberID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followUpResets = append(f.followUpResets, memberID)
	return nil
}

/* =========================================================
   Fixtures
========================================================= */

func seedTenant(f *fakeStore, tier constants.SubscriptionTier) uuid.UUID {
	id := uuid.New()
	f.tenants[id] = &tenantModel.TenantModel{
		TenantID:   id,
		TenantName: "GBI Karunia",
		TenantSlug: "gbi-karunia",
		TenantTier: tier,
	}
	return id
}

func seedGathering(f *fakeStore, tenantID uuid.UUID, active bool) uuid.UUID {
	id := uuid.New()
	f.gatherings[id] = &gatheringModel.GatheringModel{
		GatheringID:       id,
		GatheringTenantID: tenantID,
		GatheringName:     "Ibadah Minggu",
		GatheringIsActive: active,
	}
	return id
}

func seedMember(f *fakeStore, tenantID uuid.UUID, first string) *memberModel.MemberModel {
	id := uuid.New()
	m := &memberModel.MemberModel{
		MemberID:        id,
		MemberTenantID:  tenantID,
		MemberFirstName: first,
		MemberGender:    memberModel.GenderMale,
		MemberAgeGroup:  memberModel.AgeGroupAdult,
		MemberIsCurrent: true,
	}
	f.members[id] = m
	return m
}

func seedFamily(f *fakeStore, tenantID uuid.UUID, childNames ...string) (*memberModel.MemberModel, []*memberModel.MemberModel) {
	head := seedMember(f, tenantID, "Budi")
	head.MemberIsFamilyHead = true
	gid := head.MemberID
	head.MemberFamilyGroupID = &gid

	var children []*memberModel.MemberModel
	for _, name := range childNames {
		c := seedMember(f, tenantID, name)
		c.MemberAgeGroup = memberModel.AgeGroupChild
		c.MemberRelationship = memberModel.RelationshipChild
		c.MemberFamilyGroupID = &gid
		children = append(children, c)
	}
	return head, children
}

/* =========================================================
   CheckIn
========================================================= */

func TestCheckIn_MemberAccepted(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)
	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID:    tenantID,
		GatheringID: &gatheringID,
		Person:      PersonReference{MemberID: &m.MemberID},
		Method:      model.MethodManual,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	require.NotNil(t, res.Record)
	assert.Equal(t, "Andi", res.Record.AttendancePersonName)
	assert.Equal(t, model.MethodManual, res.Record.AttendanceMethod)
	assert.Contains(t, f.followUpResets, m.MemberID)
}

func TestCheckIn_SecondAttemptSameDayIsDuplicate(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)
	in := CheckInInput{
		TenantID:    tenantID,
		GatheringID: &gatheringID,
		Person:      PersonReference{MemberID: &m.MemberID},
		Method:      model.MethodManual,
	}

	first, err := svc.CheckIn(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, first.Outcome)

	second, err := svc.CheckIn(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, second.Outcome)
	require.NotNil(t, second.ExistingCheckedInAt)
	assert.Equal(t, first.Record.AttendanceCheckedInAt.Unix(), second.ExistingCheckedInAt.Unix())
}

func TestCheckIn_ConcurrentAttemptsOnlyOneAccepted(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)

	const attempts = 16
	results := make([]Outcome, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.CheckIn(context.Background(), CheckInInput{
				TenantID:    tenantID,
				GatheringID: &gatheringID,
				Person:      PersonReference{MemberID: &m.MemberID},
				Method:      model.MethodManual,
			})
			errs[i] = err
			if res != nil {
				results[i] = res.Outcome
			}
		}(i)
	}
	wg.Wait()

	accepted := 0
	for i, o := range results {
		require.NoError(t, errs[i])
		switch o {
		case OutcomeAccepted:
			accepted++
		case OutcomeDuplicate:
		default:
			t.Fatalf("outcome tak terduga: %s", o)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Len(t, f.attendance, 1)
}

func TestCheckIn_MalformedPerson(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)

	// dua-duanya terisi
	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID: tenantID,
		Person: PersonReference{
			MemberID:   &m.MemberID,
			NewVisitor: &NewVisitorInput{FirstName: "Tamu", Gender: memberModel.GenderFemale, AgeGroup: memberModel.AgeGroupAdult},
		},
		Method: model.MethodManual,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectMalformedPerson, res.RejectReason)

	// dua-duanya kosong
	res, err = svc.CheckIn(context.Background(), CheckInInput{
		TenantID: tenantID,
		Person:   PersonReference{},
		Method:   model.MethodManual,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectMalformedPerson, res.RejectReason)
}

func TestCheckIn_InvalidMethod(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)
	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID: tenantID,
		Person:   PersonReference{MemberID: &m.MemberID},
		Method:   model.CheckInMethod("telepathy"),
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectInvalidMethod, res.RejectReason)
}

func TestCheckIn_UnknownTenantFailsClosed(t *testing.T) {
	f := newFakeStore()
	svc := NewCheckinService(f)

	memberID := uuid.New()
	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID: uuid.New(),
		Person:   PersonReference{MemberID: &memberID},
		Method:   model.MethodManual,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectPolicyDenied, res.RejectReason)
}

func TestCheckIn_SuspendedTenantDenied(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierSuspended)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)
	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID: tenantID,
		Person:   PersonReference{MemberID: &m.MemberID},
		Method:   model.MethodManual,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectPolicyDenied, res.RejectReason)
}

func TestCheckIn_GatheringNotFoundAndInactive(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	m := seedMember(f, tenantID, "Andi")
	inactive := seedGathering(f, tenantID, false)

	svc := NewCheckinService(f)

	unknown := uuid.New()
	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID:    tenantID,
		GatheringID: &unknown,
		Person:      PersonReference{MemberID: &m.MemberID},
		Method:      model.MethodManual,
	})
	require.NoError(t, err)
	assert.Equal(t, RejectGatheringNotFound, res.RejectReason)

	res, err = svc.CheckIn(context.Background(), CheckInInput{
		TenantID:    tenantID,
		GatheringID: &inactive,
		Person:      PersonReference{MemberID: &m.MemberID},
		Method:      model.MethodManual,
	})
	require.NoError(t, err)
	assert.Equal(t, RejectGatheringInactive, res.RejectReason)
}

func TestCheckIn_VisitorCreatedAndDenormalized(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)

	svc := NewCheckinService(f)
	how := "diajak teman"
	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID:    tenantID,
		GatheringID: &gatheringID,
		Person: PersonReference{NewVisitor: &NewVisitorInput{
			FirstName: "Sari",
			LastName:  "Wijaya",
			Gender:    memberModel.GenderFemale,
			AgeGroup:  memberModel.AgeGroupAdult,
			HowHeard:  &how,
		}},
		Method: model.MethodManual,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	require.NotNil(t, res.Record)
	assert.Equal(t, "Sari Wijaya", res.Record.AttendancePersonName)
	assert.Equal(t, model.MethodVisitor, res.Record.AttendanceMethod)
	assert.True(t, res.Record.AttendanceIsGuest)
	require.NotNil(t, res.Record.AttendanceVisitorID)

	v := f.visitors[*res.Record.AttendanceVisitorID]
	require.NotNil(t, v)
	assert.Equal(t, "Sari", v.VisitorFirstName)
	require.NotNil(t, v.VisitorHowHeard)
	assert.Equal(t, how, *v.VisitorHowHeard)
}

func TestCheckIn_SameMemberDifferentGatheringSameDay(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	g1 := seedGathering(f, tenantID, true)
	g2 := seedGathering(f, tenantID, true)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)

	res1, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID: tenantID, GatheringID: &g1,
		Person: PersonReference{MemberID: &m.MemberID}, Method: model.MethodManual,
	})
	require.NoError(t, err)
	res2, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID: tenantID, GatheringID: &g2,
		Person: PersonReference{MemberID: &m.MemberID}, Method: model.MethodManual,
	})
	require.NoError(t, err)

	// gathering berbeda = kunci dedup berbeda
	assert.Equal(t, OutcomeAccepted, res1.Outcome)
	assert.Equal(t, OutcomeAccepted, res2.Outcome)
}

func TestCheckIn_HistoricalDateUsesExplicitDate(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	m := seedMember(f, tenantID, "Andi")

	svc := NewCheckinService(f)
	past := time.Date(2024, 6, 2, 13, 45, 0, 0, time.UTC)

	res, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID: tenantID,
		Person:   PersonReference{MemberID: &m.MemberID},
		Method:   model.MethodManual,
		Date:     &past,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, res.Outcome)
	assert.Equal(t, "2024-06-02", res.Record.AttendanceDate.Format("2006-01-02"))
}

/* =========================================================
   Identity resolver
========================================================= */

func TestResolveBiometric_Identified(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierGrowth)
	m := seedMember(f, tenantID, "Andi")
	token := "fp-7f3a9c21d4"
	m.MemberBiometricToken = &token

	svc := NewCheckinService(f)
	r, err := svc.ResolveBiometric(context.Background(), tenantID, token)
	require.NoError(t, err)
	assert.Equal(t, ResolutionIdentified, r.Kind)
	require.NotNil(t, r.MemberID)
	assert.Equal(t, m.MemberID, *r.MemberID)
}

func TestResolveBiometric_UnidentifiedKeepsRawToken(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierGrowth)

	svc := NewCheckinService(f)
	r, err := svc.ResolveBiometric(context.Background(), tenantID, "fp-tidak-dikenal")
	require.NoError(t, err)
	assert.Equal(t, ResolutionUnidentified, r.Kind)
	assert.Nil(t, r.MemberID)
	assert.Equal(t, "fp-tidak-dikenal", r.RawToken)
}

func TestResolveBiometric_EmptyTokenInvalid(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierGrowth)

	svc := NewCheckinService(f)
	r, err := svc.ResolveBiometric(context.Background(), tenantID, "   ")
	require.NoError(t, err)
	assert.Equal(t, ResolutionInvalid, r.Kind)
}

/* =========================================================
   Family cascade
========================================================= */

func TestFamilyCheckIn_AllChildren(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	head, children := seedFamily(f, tenantID, "Citra", "Dewi")

	svc := NewCheckinService(f)
	res, err := svc.FamilyCheckIn(context.Background(), FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &gatheringID,
		HeadMemberID: head.MemberID,
		ChildIDs:     nil, // semua anak
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	require.NotNil(t, res.Head)
	assert.Equal(t, OutcomeAccepted, res.Head.Outcome)
	assert.Len(t, res.NewlyCheckedIn, len(children))
	assert.Empty(t, res.Skipped)
}

func TestFamilyCheckIn_RepeatSkipsEveryone(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	head, children := seedFamily(f, tenantID, "Citra", "Dewi")

	svc := NewCheckinService(f)
	in := FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &gatheringID,
		HeadMemberID: head.MemberID,
	}

	_, err := svc.FamilyCheckIn(context.Background(), in)
	require.NoError(t, err)

	res, err := svc.FamilyCheckIn(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	assert.Equal(t, OutcomeDuplicate, res.Head.Outcome)
	assert.Empty(t, res.NewlyCheckedIn)
	assert.Len(t, res.Skipped, len(children))
}

func TestFamilyCheckIn_PartiallyCheckedInFamily(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	head, children := seedFamily(f, tenantID, "Citra", "Dewi")

	svc := NewCheckinService(f)

	// Citra sudah check-in duluan sendiri
	pre, err := svc.CheckIn(context.Background(), CheckInInput{
		TenantID:    tenantID,
		GatheringID: &gatheringID,
		Person:      PersonReference{MemberID: &children[0].MemberID},
		Method:      model.MethodManual,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, pre.Outcome)

	res, err := svc.FamilyCheckIn(context.Background(), FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &gatheringID,
		HeadMemberID: head.MemberID,
	})
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, children[0].MemberID, res.Skipped[0].MemberID)
	require.NotNil(t, res.Skipped[0].CheckedInAt)

	require.Len(t, res.NewlyCheckedIn, 1)
	assert.Equal(t, children[1].MemberID, res.NewlyCheckedIn[0].MemberID)
}

func TestFamilyCheckIn_ExplicitSubset(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	head, children := seedFamily(f, tenantID, "Citra", "Dewi", "Eka")

	svc := NewCheckinService(f)
	outsider := uuid.New() // id di luar keluarga diabaikan diam-diam

	res, err := svc.FamilyCheckIn(context.Background(), FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &gatheringID,
		HeadMemberID: head.MemberID,
		ChildIDs:     []uuid.UUID{children[0].MemberID, outsider},
	})
	require.NoError(t, err)
	require.Len(t, res.NewlyCheckedIn, 1)
	assert.Equal(t, children[0].MemberID, res.NewlyCheckedIn[0].MemberID)
}

func TestFamilyCheckIn_UnknownGatheringRejectedBeforeAnyWrite(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	head, _ := seedFamily(f, tenantID, "Citra", "Dewi")

	svc := NewCheckinService(f)
	unknown := uuid.New()

	res, err := svc.FamilyCheckIn(context.Background(), FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &unknown,
		HeadMemberID: head.MemberID,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectGatheringNotFound, res.RejectReason)
	assert.Empty(t, f.attendance, "penolakan gathering tidak boleh meninggalkan record")
}

func TestFamilyCheckIn_InactiveGatheringRejectedBeforeAnyWrite(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	inactive := seedGathering(f, tenantID, false)
	head, _ := seedFamily(f, tenantID, "Citra", "Dewi")

	svc := NewCheckinService(f)
	res, err := svc.FamilyCheckIn(context.Background(), FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &inactive,
		HeadMemberID: head.MemberID,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectGatheringInactive, res.RejectReason)
	assert.Empty(t, f.attendance)
	assert.Empty(t, f.followUpResets)
}

func TestFamilyCheckIn_NonHeadRejected(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	_, children := seedFamily(f, tenantID, "Citra")

	svc := NewCheckinService(f)
	res, err := svc.FamilyCheckIn(context.Background(), FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &gatheringID,
		HeadMemberID: children[0].MemberID,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, RejectMemberNotFound, res.RejectReason)
}

func TestFamilyCheckIn_ResetsFollowUpForNewlyCheckedChildren(t *testing.T) {
	f := newFakeStore()
	tenantID := seedTenant(f, constants.TierStarter)
	gatheringID := seedGathering(f, tenantID, true)
	head, children := seedFamily(f, tenantID, "Citra")

	svc := NewCheckinService(f)
	_, err := svc.FamilyCheckIn(context.Background(), FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  &gatheringID,
		HeadMemberID: head.MemberID,
	})
	require.NoError(t, err)

	assert.Contains(t, f.followUpResets, head.MemberID)
	assert.Contains(t, f.followUpResets, children[0].MemberID)
}
