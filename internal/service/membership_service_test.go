package service

import (
	"context"
	"testing"
	"time"

	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/ekusa/ekusa-backend/internal/identity"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type membershipFixture struct {
	svc         MembershipService
	members     *fakeMemberRepo
	interests   *fakeInterestRepo
	regs        *fakeRegistrationRepo
	identities  *identity.MemoryStore
	broadcaster *recordingBroadcaster
	mailer      *recordingMailer
}

func newMembershipFixture() *membershipFixture {
	fx := &membershipFixture{
		members:     &fakeMemberRepo{},
		interests:   &fakeInterestRepo{},
		regs:        &fakeRegistrationRepo{},
		identities:  identity.NewMemoryStore(),
		broadcaster: &recordingBroadcaster{},
		mailer:      &recordingMailer{},
	}
	fx.svc = NewMembershipService(testConfig(), fx.members, fx.interests, fx.regs, fx.identities, fx.broadcaster, fx.mailer)
	return fx
}

func validApplication() MembershipInput {
	return MembershipInput{
		Name:               "Jane Doe",
		Email:              "jane@example.com",
		Course:             "Computer Science",
		RegistrationNumber: "R123",
		PhoneNumber:        "0700000000",
		YearOfStudy:        "2nd Year",
	}
}

func TestMembershipService_ApplyCachesIdentity(t *testing.T) {
	fx := newMembershipFixture()
	ctx := context.Background()

	m, err := fx.svc.Apply(ctx, "client-1", validApplication())
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	require.NotNil(t, m.YearOfStudy)
	assert.Equal(t, "2nd Year", *m.YearOfStudy)
	assert.Nil(t, m.ReasonForJoining)

	cached, err := fx.svc.Current(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, m.ID, cached.ID)
	assert.Equal(t, "Jane Doe", cached.Name)
	assert.Equal(t, "R123", cached.RegistrationNumber)

	other, err := fx.svc.Current(ctx, "client-2")
	require.NoError(t, err)
	assert.Nil(t, other)

	assert.Equal(t, []string{"membership_created"}, fx.broadcaster.kinds())
	require.Equal(t, []string{email.TemplateMembershipWelcome}, fx.mailer.templates())
	assert.Equal(t, []string{"jane@example.com"}, fx.mailer.sent[0].to)
	assert.Equal(t, "Jane", fx.mailer.sent[0].data.(email.MembershipWelcomeData).FirstName)
}

func TestMembershipService_ApplyValidation(t *testing.T) {
	fx := newMembershipFixture()
	ctx := context.Background()

	missing := validApplication()
	missing.PhoneNumber = "   "
	_, err := fx.svc.Apply(ctx, "client-1", missing)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badYear := validApplication()
	badYear.YearOfStudy = "7th Year"
	_, err = fx.svc.Apply(ctx, "client-1", badYear)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, fx.identities.Len())
	assert.Empty(t, fx.broadcaster.kinds())
}

func TestMembershipService_ApplyFailureLeavesCacheEmpty(t *testing.T) {
	fx := newMembershipFixture()
	fx.members.createErr = assert.AnError

	_, err := fx.svc.Apply(context.Background(), "client-1", validApplication())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, fx.identities.Len())
	assert.Empty(t, fx.mailer.templates())
}

func TestMembershipService_Forget(t *testing.T) {
	fx := newMembershipFixture()
	ctx := context.Background()

	_, err := fx.svc.Apply(ctx, "client-1", validApplication())
	require.NoError(t, err)
	require.NoError(t, fx.svc.Forget(ctx, "client-1"))

	cached, err := fx.svc.Current(ctx, "client-1")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestMembershipService_GetAndDelete(t *testing.T) {
	fx := newMembershipFixture()
	ctx := context.Background()
	jane := fx.members.add("Jane Doe", "jane@example.com", "R123")

	got, err := fx.svc.Get(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, jane.ID, got.ID)

	_, err = fx.svc.Get(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fx.svc.Delete(ctx, jane.ID))
	assert.ErrorIs(t, fx.svc.Delete(ctx, jane.ID), ErrNotFound)
}

func TestMembershipService_ListInterestsFilters(t *testing.T) {
	fx := newMembershipFixture()
	ctx := context.Background()
	hike, talk := uuid.NewString(), uuid.NewString()

	fx.interests.interests = []*repository.EventInterest{
		{ID: uuid.NewString(), EventID: hike, EventTitle: "Mount Kenya Hiking Adventure", MemberName: "Jane Doe", MemberEmail: "jane@example.com"},
		{ID: uuid.NewString(), EventID: talk, EventTitle: "Career Talk", MemberName: "John Roe", MemberEmail: "john@example.com"},
		{ID: uuid.NewString(), EventID: talk, EventTitle: "Career Talk", MemberName: "Jane Doe", MemberEmail: "jane@example.com"},
	}

	all, err := fx.svc.ListInterests(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := fx.svc.ListInterests(ctx, "JANE", "")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byTitle, err := fx.svc.ListInterests(ctx, "hiking", "")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, hike, byTitle[0].EventID)

	byEvent, err := fx.svc.ListInterests(ctx, "john", talk)
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)

	_, err = fx.svc.ListInterests(ctx, "", "nope")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMembershipService_Registrations(t *testing.T) {
	fx := newMembershipFixture()
	ctx := context.Background()
	eventID := uuid.NewString()

	reg := &repository.EventRegistration{EventID: eventID, Name: "Jane Doe", Course: "CS", RegistrationNumber: "R123", PhoneNumber: "0700000000"}
	require.NoError(t, fx.regs.Create(ctx, reg))
	require.NoError(t, fx.regs.Create(ctx, &repository.EventRegistration{EventID: uuid.NewString(), CreatedAt: time.Now()}))

	all, err := fx.svc.ListRegistrations(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	forEvent, err := fx.svc.ListRegistrations(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, forEvent, 1)
	assert.Equal(t, "Jane Doe", forEvent[0].Name)

	require.NoError(t, fx.svc.DeleteRegistration(ctx, reg.ID))
	assert.ErrorIs(t, fx.svc.DeleteRegistration(ctx, reg.ID), ErrNotFound)
}
