// AngelaMos | 2026
// service_test.go

package join

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/core"
)

var fixedNow = time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)

type fakeRepo struct {
	volunteers map[int64]*Volunteer
	donations  map[int64]*Donation
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		volunteers: map[int64]*Volunteer{},
		donations:  map[int64]*Donation{},
	}
}

func (f *fakeRepo) CreateVolunteer(_ context.Context, v *Volunteer) error {
	f.nextID++
	v.ID = f.nextID
	v.CreatedAt = fixedNow
	stored := *v
	f.volunteers[v.ID] = &stored
	return nil
}

func (f *fakeRepo) ListVolunteers(_ context.Context, flt ListFilter) ([]Volunteer, int, error) {
	out := []Volunteer{}
	for _, v := range f.volunteers {
		if flt.IsConfirmed != nil && v.IsConfirmed != *flt.IsConfirmed {
			continue
		}
		out = append(out, *v)
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetVolunteerForUpdate(_ context.Context, id int64) (*Volunteer, error) {
	v, ok := f.volunteers[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepo) SaveVolunteer(_ context.Context, v *Volunteer) error {
	stored := *v
	f.volunteers[v.ID] = &stored
	return nil
}

func (f *fakeRepo) CreateDonation(_ context.Context, d *Donation) error {
	f.nextID++
	d.ID = f.nextID
	d.CreatedAt = fixedNow
	stored := *d
	f.donations[d.ID] = &stored
	return nil
}

func (f *fakeRepo) ListDonations(_ context.Context, flt ListFilter) ([]Donation, int, error) {
	out := []Donation{}
	for _, d := range f.donations {
		if flt.DonationType != "" && d.DonationType != flt.DonationType {
			continue
		}
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetDonationForUpdate(_ context.Context, id int64) (*Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) SaveDonation(_ context.Context, d *Donation) error {
	stored := *d
	f.donations[d.ID] = &stored
	return nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(tx core.DBTX) error) error {
	f.calls++
	return fn(nil)
}

func newTestService(repo *fakeRepo) (*Service, *fakeTx) {
	tx := &fakeTx{}
	svc := NewService(repo, tx, func(core.DBTX) Repository { return repo })
	svc.now = func() time.Time { return fixedNow }
	return svc, tx
}

func validVolunteer() VolunteerRequest {
	return VolunteerRequest{
		Name:           "김봉사",
		BirthDate:      core.NewDate(1995, time.July, 7),
		Phone:          "010-2222-3333",
		Email:          "volunteer@example.org",
		Occupation:     "teacher",
		Programs:       []string{"contest", "office"},
		AvailableDates: "weekends",
		Motivation:     "history education",
		PrivacyAgreed:  true,
	}
}

func validDonation() DonationRequest {
	return DonationRequest{
		DonationType: DonationMonthly,
		Amount:       30000,
		DonorName:    "박후원",
		Phone:        "010-4444-5555",
		Email:        "donor@example.org",
	}
}

func TestApplyVolunteer(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	v, err := svc.ApplyVolunteer(context.Background(), validVolunteer())
	require.NoError(t, err)

	assert.Equal(t, "01022223333", v.Phone)
	assert.Equal(t, Programs{"contest", "office"}, v.Programs)
	assert.False(t, v.IsConfirmed)
	assert.Contains(t, repo.volunteers, v.ID)
}

func TestApplyVolunteerRejections(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	req := validVolunteer()
	req.PrivacyAgreed = false
	_, err := svc.ApplyVolunteer(context.Background(), req)
	require.ErrorIs(t, err, ErrPrivacyNotAgreed)

	req = validVolunteer()
	req.Programs = []string{"contest", "cooking"}
	_, err = svc.ApplyVolunteer(context.Background(), req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDonateRecordsMember(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	d, err := svc.Donate(context.Background(), "member-9", validDonation())
	require.NoError(t, err)

	require.NotNil(t, d.UserID)
	assert.Equal(t, "member-9", *d.UserID)
	assert.Equal(t, "01044445555", d.Phone)

	anon, err := svc.Donate(context.Background(), "", validDonation())
	require.NoError(t, err)
	assert.Nil(t, anon.UserID)
}

func TestDonateValidation(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	req := validDonation()
	req.Amount = 0
	_, err := svc.Donate(context.Background(), "", req)
	require.ErrorIs(t, err, ErrInvalidAmount)

	req = validDonation()
	req.ReceiptRequested = true
	req.ReceiptName = "  "
	_, err = svc.Donate(context.Background(), "", req)
	require.ErrorIs(t, err, ErrReceiptNameRequired)
}

func TestDonateDropsReceiptFieldsWhenNotRequested(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	req := validDonation()
	req.ReceiptName = "ignored"
	req.ReceiptID = "123456"

	d, err := svc.Donate(context.Background(), "", req)
	require.NoError(t, err)
	assert.Empty(t, d.ReceiptName)
	assert.Empty(t, d.ReceiptID)
}

func TestConfirmDonationSetsBothFields(t *testing.T) {
	repo := newFakeRepo()
	repo.donations[4] = &Donation{ID: 4, Amount: 10000}
	svc, tx := newTestService(repo)

	d, err := svc.ConfirmDonation(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.True(t, d.IsConfirmed)
	require.NotNil(t, d.ConfirmedAt)
	assert.Equal(t, fixedNow, *d.ConfirmedAt)
	assert.True(t, repo.donations[4].IsConfirmed)

	_, err = svc.ConfirmDonation(context.Background(), 4)
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
	require.ErrorIs(t, err, core.ErrAlreadyInState)
	assert.Equal(t, fixedNow, *repo.donations[4].ConfirmedAt)

	_, err = svc.ConfirmDonation(context.Background(), 5)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestConfirmVolunteer(t *testing.T) {
	repo := newFakeRepo()
	repo.volunteers[2] = &Volunteer{ID: 2}
	svc, _ := newTestService(repo)
	memo := "assigned to contest day"

	v, err := svc.ConfirmVolunteer(context.Background(), 2, &memo)
	require.NoError(t, err)

	assert.True(t, v.IsConfirmed)
	assert.Equal(t, memo, repo.volunteers[2].AdminMemo)

	_, err = svc.ConfirmVolunteer(context.Background(), 2, nil)
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestListDonationsRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, _, err := svc.ListDonations(context.Background(), ListFilter{DonationType: "weekly"})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestProgramsScan(t *testing.T) {
	var p Programs
	require.NoError(t, p.Scan([]byte(`["memorial","education"]`)))
	assert.Equal(t, Programs{"memorial", "education"}, p)

	require.NoError(t, p.Scan(nil))
	assert.Empty(t, p)

	require.Error(t, p.Scan(42))

	v, err := Programs(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
