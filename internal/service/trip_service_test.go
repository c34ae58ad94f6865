package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"barefoot/internal/apperr"
	"barefoot/internal/entity"
	"barefoot/internal/model"
	"barefoot/internal/model/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tripClock = time.Date(2030, time.March, 10, 15, 0, 0, 0, time.UTC)

func newTripFixture(t *testing.T) (*TripService, *memory.Repository, *entity.DbUser, *entity.DbUser) {
	t.Helper()
	repo := memory.NewRepository()
	svc := NewTripService(repo)
	svc.now = func() time.Time { return tripClock }

	manager := createUser(t, repo, "boss@example.com", entity.RoleManager)
	requester := createUser(t, repo, "jane@example.com", entity.RoleRequester)
	id, name := manager.ID, manager.FullName()
	require.NoError(t, repo.UpdateUser(context.Background(), requester.ID, entity.UserUpdates{ManagerID: &id, ManagerName: &name}))
	requester, err := repo.GetUserByID(context.Background(), requester.ID)
	require.NoError(t, err)
	return svc, repo, requester, manager
}

func oneWay(date string) entity.TripCreateRequest {
	return entity.TripCreateRequest{
		Origin:        "Kigali",
		Destination:   "Nairobi",
		DepartureDate: date,
		Reason:        "Conference",
		Accommodation: "Serena",
	}
}

func TestCreateTripRequiresManager(t *testing.T) {
	svc, repo, _, _ := newTripFixture(t)
	loner := createUser(t, repo, "solo@example.com", entity.RoleRequester)

	_, err := svc.Create(context.Background(), loner, entity.TripOneWay, oneWay("2030-03-12"))
	requireKind(t, err, apperr.KindUnauthorized, apperr.MsgNoManager)
}

func TestCreateOneWayTrip(t *testing.T) {
	svc, _, requester, manager := newTripFixture(t)

	trip, err := svc.Create(context.Background(), requester, entity.TripOneWay, oneWay("2030-03-10"))
	require.NoError(t, err)
	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, entity.TripPending, trip.Status)
	assert.Equal(t, manager.ID, trip.ManagerID)
	assert.Equal(t, requester.ID, trip.RequesterID)
	assert.Empty(t, trip.ReturnDate)
}

func TestCreateTripValidation(t *testing.T) {
	svc, _, requester, _ := newTripFixture(t)

	cases := map[string]struct {
		tripType string
		req      entity.TripCreateRequest
	}{
		"past departure":      {entity.TripOneWay, oneWay("2030-03-09")},
		"bad date":            {entity.TripOneWay, oneWay("10/03/2030")},
		"missing destination": {entity.TripOneWay, func() entity.TripCreateRequest { r := oneWay("2030-03-12"); r.Destination = ""; return r }()},
		"missing return":      {entity.TripReturn, oneWay("2030-03-12")},
		"return before departure": {entity.TripReturn, func() entity.TripCreateRequest {
			r := oneWay("2030-03-12")
			r.ReturnDate = "2030-03-11"
			return r
		}()},
		"single stop": {entity.TripMultiCity, entity.TripCreateRequest{
			Origin: "Kigali", Reason: "Audit",
			Stops: []entity.TripStop{{Destination: "Kampala", DepartureDate: "2030-03-12"}},
		}},
		"unordered stops": {entity.TripMultiCity, entity.TripCreateRequest{
			Origin: "Kigali", Reason: "Audit",
			Stops: []entity.TripStop{
				{Destination: "Kampala", DepartureDate: "2030-03-14"},
				{Destination: "Nairobi", DepartureDate: "2030-03-12"},
			},
		}},
		"unknown type": {"space", oneWay("2030-03-12")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), requester, tc.tripType, tc.req)
			requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidTrip)
		})
	}
}

func TestCreateReturnAndMultiCityTrips(t *testing.T) {
	svc, _, requester, _ := newTripFixture(t)

	req := oneWay("2030-03-12")
	req.ReturnDate = "2030-03-15"
	trip, err := svc.Create(context.Background(), requester, entity.TripReturn, req)
	require.NoError(t, err)
	assert.Equal(t, "2030-03-15", trip.ReturnDate)

	multi, err := svc.Create(context.Background(), requester, entity.TripMultiCity, entity.TripCreateRequest{
		Origin: "Kigali",
		Reason: "Regional audit",
		Stops: []entity.TripStop{
			{Destination: "Kampala", DepartureDate: "2030-03-12"},
			{Destination: "Nairobi", DepartureDate: "2030-03-12"},
			{Destination: "Dar es Salaam", DepartureDate: "2030-03-16", Accommodation: "Hyatt"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dar es Salaam", multi.Destination)
	assert.Equal(t, "2030-03-12", multi.DepartureDate)
	assert.Len(t, multi.Stops, 3)
}

func TestCreateTripRemembersProfile(t *testing.T) {
	svc, repo, requester, _ := newTripFixture(t)

	req := oneWay("2030-03-12")
	req.Remember = true
	req.Profile = &entity.ProfileUpdateRequest{Department: ptr("Sales"), Residence: ptr("KIGALI")}
	_, err := svc.Create(context.Background(), requester, entity.TripOneWay, req)
	require.NoError(t, err)

	stored, err := repo.GetUserByID(context.Background(), requester.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sales", stored.Department)
	assert.Equal(t, "kigali", stored.Residence)
}

// tripInsertFails rejects every trip insert.
type tripInsertFails struct {
	model.Repository
}

func (tripInsertFails) CreateTripRequest(context.Context, *entity.DbTripRequest, entity.UserUpdates) error {
	return errors.New("disk full")
}

func TestCreateTripKeepsProfileWhenInsertFails(t *testing.T) {
	svc, repo, requester, _ := newTripFixture(t)
	svc.repo = tripInsertFails{Repository: repo}

	req := oneWay("2030-03-12")
	req.Remember = true
	req.Profile = &entity.ProfileUpdateRequest{Department: ptr("Sales")}
	_, err := svc.Create(context.Background(), requester, entity.TripOneWay, req)
	requireKind(t, err, apperr.KindInternal, apperr.MsgServerError)

	stored, err := repo.GetUserByID(context.Background(), requester.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Department)
}

func TestUpdateTrip(t *testing.T) {
	svc, _, requester, _ := newTripFixture(t)
	trip, err := svc.Create(context.Background(), requester, entity.TripOneWay, oneWay("2030-03-12"))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), trip, entity.TripUpdateRequest{Destination: ptr(" Mombasa ")})
	require.NoError(t, err)
	assert.Equal(t, "Mombasa", updated.Destination)

	_, err = svc.Update(context.Background(), updated, entity.TripUpdateRequest{DepartureDate: ptr("2030-01-01")})
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidTrip)

	decided, err := svc.Decide(context.Background(), updated, entity.TripApproved)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), decided, entity.TripUpdateRequest{Reason: ptr("changed")})
	requireKind(t, err, apperr.KindConflict, apperr.MsgTripNotPending)

	_, err = svc.Update(context.Background(), trip, entity.TripUpdateRequest{Stops: &[]entity.TripStop{
		{Destination: "Kampala", DepartureDate: "2030-03-12"},
		{Destination: "Nairobi", DepartureDate: "2030-03-14"},
	}})
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidTrip)
}

func TestUpdateMultiCityTripKeepsStopsConsistent(t *testing.T) {
	svc, _, requester, _ := newTripFixture(t)
	trip, err := svc.Create(context.Background(), requester, entity.TripMultiCity, entity.TripCreateRequest{
		Origin: "Kigali",
		Reason: "Regional audit",
		Stops: []entity.TripStop{
			{Destination: "Nairobi", DepartureDate: "2030-03-12"},
			{Destination: "Kampala", DepartureDate: "2030-03-14"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), trip, entity.TripUpdateRequest{
		DepartureDate: ptr("2030-04-30"),
		Destination:   ptr("Paris"),
	})
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidTrip)
	_, err = svc.Update(context.Background(), trip, entity.TripUpdateRequest{DepartureDate: ptr("2030-04-30")})
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidTrip)

	_, err = svc.Update(context.Background(), trip, entity.TripUpdateRequest{Stops: &[]entity.TripStop{
		{Destination: "Paris", DepartureDate: "2030-04-30"},
		{Destination: "Lyon", DepartureDate: "2030-04-29"},
	}})
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidTrip)

	updated, err := svc.Update(context.Background(), trip, entity.TripUpdateRequest{Stops: &[]entity.TripStop{
		{Destination: "Nairobi", DepartureDate: "2030-04-28"},
		{Destination: " Paris ", DepartureDate: "2030-04-30", Accommodation: "Ritz"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "2030-04-28", updated.DepartureDate)
	assert.Equal(t, "Paris", updated.Destination)
	require.Len(t, updated.Stops, 2)
	assert.Equal(t, "Ritz", updated.Stops[1].Accommodation)

	reasonOnly, err := svc.Update(context.Background(), updated, entity.TripUpdateRequest{Reason: ptr("Partner visit")})
	require.NoError(t, err)
	assert.Equal(t, "Partner visit", reasonOnly.Reason)
	assert.Equal(t, updated.Stops, reasonOnly.Stops)
}

func TestConfirmTrip(t *testing.T) {
	svc, _, requester, _ := newTripFixture(t)
	trip, err := svc.Create(context.Background(), requester, entity.TripOneWay, oneWay("2030-03-12"))
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), trip, entity.TripConfirmed)
	requireKind(t, err, apperr.KindConflict, apperr.MsgTripNotApproved)

	approved, err := svc.Decide(context.Background(), trip, entity.TripApproved)
	require.NoError(t, err)
	confirmed, err := svc.Decide(context.Background(), approved, entity.TripConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.TripConfirmed, confirmed.Status)

	_, err = svc.Decide(context.Background(), confirmed, entity.TripConfirmed)
	requireKind(t, err, apperr.KindConflict, apperr.MsgTripNotApproved)
	_, err = svc.Decide(context.Background(), confirmed, entity.TripRejected)
	requireKind(t, err, apperr.KindConflict, apperr.MsgTripNotPending)

	stored, err := svc.Get(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TripConfirmed, stored.Status)
}

func TestDecideAndPending(t *testing.T) {
	svc, _, requester, manager := newTripFixture(t)
	first, err := svc.Create(context.Background(), requester, entity.TripOneWay, oneWay("2030-03-12"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), requester, entity.TripOneWay, oneWay("2030-03-13"))
	require.NoError(t, err)

	pending, meta, err := svc.Pending(context.Background(), manager.ID, entity.TripQuery{})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
	assert.EqualValues(t, 2, meta.Total)

	_, err = svc.Decide(context.Background(), first, "maybe")
	requireKind(t, err, apperr.KindBadRequest, apperr.MsgInvalidTrip)

	rejected, err := svc.Decide(context.Background(), first, entity.TripRejected)
	require.NoError(t, err)
	assert.Equal(t, entity.TripRejected, rejected.Status)

	_, err = svc.Decide(context.Background(), rejected, entity.TripApproved)
	requireKind(t, err, apperr.KindConflict, apperr.MsgTripNotPending)

	pending, _, err = svc.Pending(context.Background(), manager.ID, entity.TripQuery{})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	own, _, err := svc.ListForRequester(context.Background(), requester.ID, entity.TripQuery{})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	stored, err := svc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TripRejected, stored.Status)

	_, err = svc.Get(context.Background(), "missing")
	requireKind(t, err, apperr.KindNotFound, apperr.MsgTripNotFound)
}
