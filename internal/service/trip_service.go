package service

import (
	"barefoot/internal/apperr"
	"barefoot/internal/entity"
	"barefoot/internal/model"
	"context"
	"fmt"
	"strings"
	"time"
)

// TripService 出差申请服务
type TripService struct {
	repo model.Repository
	now  func() time.Time
}

// NewTripService 创建出差申请服务实例
func NewTripService(repo model.Repository) *TripService {
	return &TripService{repo: repo, now: time.Now}
}

func (s *TripService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func invalidTrip(format string, args ...any) error {
	return apperr.BadRequest(apperr.MsgInvalidTrip, fmt.Sprintf(format, args...))
}

func parseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(entity.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalidTrip("%s must be a date formatted as YYYY-MM-DD", field)
	}
	return parsed, nil
}

// validateDates checks departure is not in the past and ret, when set, is not before departure.
func (s *TripService) validateDates(departure, ret string) error {
	dep, err := parseDate("departure_date", departure)
	if err != nil {
		return err
	}
	if dep.Before(s.today()) {
		return invalidTrip("departure_date cannot be in the past")
	}
	if strings.TrimSpace(ret) == "" {
		return nil
	}
	back, err := parseDate("return_date", ret)
	if err != nil {
		return err
	}
	if back.Before(dep) {
		return invalidTrip("return_date cannot be before departure_date")
	}
	return nil
}

// buildStops checks a multi-city route: at least two legs, none in the past,
// each departing no earlier than the one before.
func (s *TripService) buildStops(stops []entity.TripStop) (entity.TripStops, error) {
	if len(stops) < 2 {
		return nil, invalidTrip("a multi-city trip needs at least two stops")
	}
	out := make(entity.TripStops, 0, len(stops))
	var previous time.Time
	for i, stop := range stops {
		if strings.TrimSpace(stop.Destination) == "" {
			return nil, invalidTrip("stop %d has no destination", i+1)
		}
		date, err := parseDate(fmt.Sprintf("stops[%d].departure_date", i), stop.DepartureDate)
		if err != nil {
			return nil, err
		}
		if date.Before(s.today()) || date.Before(previous) {
			return nil, invalidTrip("stop %d departs before the previous leg or in the past", i+1)
		}
		previous = date
		out = append(out, entity.TripStop{
			Destination:   strings.TrimSpace(stop.Destination),
			DepartureDate: strings.TrimSpace(stop.DepartureDate),
			Accommodation: strings.TrimSpace(stop.Accommodation),
		})
	}
	return out, nil
}

func (s *TripService) buildTrip(tripType string, req entity.TripCreateRequest) (*entity.DbTripRequest, error) {
	trip := &entity.DbTripRequest{
		Type:          tripType,
		Origin:        strings.TrimSpace(req.Origin),
		Destination:   strings.TrimSpace(req.Destination),
		DepartureDate: strings.TrimSpace(req.DepartureDate),
		Reason:        strings.TrimSpace(req.Reason),
		Accommodation: strings.TrimSpace(req.Accommodation),
		Status:        entity.TripPending,
	}
	if trip.Origin == "" || trip.Reason == "" {
		return nil, invalidTrip("origin and reason are required")
	}

	switch tripType {
	case entity.TripOneWay, entity.TripReturn:
		if trip.Destination == "" {
			return nil, invalidTrip("destination is required")
		}
		ret := ""
		if tripType == entity.TripReturn {
			ret = strings.TrimSpace(req.ReturnDate)
			if ret == "" {
				return nil, invalidTrip("return_date is required")
			}
			trip.ReturnDate = ret
		}
		if err := s.validateDates(trip.DepartureDate, ret); err != nil {
			return nil, err
		}
	case entity.TripMultiCity:
		stops, err := s.buildStops(req.Stops)
		if err != nil {
			return nil, err
		}
		trip.Stops = stops
		trip.DepartureDate = trip.Stops[0].DepartureDate
		trip.Destination = trip.Stops[len(trip.Stops)-1].Destination
		if ret := strings.TrimSpace(req.ReturnDate); ret != "" {
			if err := s.validateDates(trip.DepartureDate, ret); err != nil {
				return nil, err
			}
			trip.ReturnDate = ret
		}
	default:
		return nil, invalidTrip("unknown trip type %q", tripType)
	}
	return trip, nil
}

// Create raises a pending trip request for requester's manager.
func (s *TripService) Create(ctx context.Context, requester *entity.DbUser, tripType string, req entity.TripCreateRequest) (*entity.DbTripRequest, error) {
	if requester == nil || !requester.HasManager() {
		return nil, apperr.Unauthorized(apperr.MsgNoManager)
	}
	trip, err := s.buildTrip(tripType, req)
	if err != nil {
		return nil, err
	}
	trip.RequesterID = requester.ID
	trip.Email = requester.Email
	trip.ManagerID = *requester.ManagerID

	var profile entity.UserUpdates
	if req.Remember && req.Profile != nil {
		profile = req.Profile.Updates()
	}
	if err := s.repo.CreateTripRequest(ctx, trip, profile); err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgUserNotFound))
	}
	return trip, nil
}

// Get loads a trip request.
func (s *TripService) Get(ctx context.Context, id string) (*entity.DbTripRequest, error) {
	trip, err := s.repo.GetTripRequest(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgTripNotFound))
	}
	return trip, nil
}

// Update edits a pending trip request.
func (s *TripService) Update(ctx context.Context, trip *entity.DbTripRequest, req entity.TripUpdateRequest) (*entity.DbTripRequest, error) {
	if trip.Status != entity.TripPending {
		return nil, apperr.Conflict(apperr.MsgTripNotPending)
	}
	updates := entity.TripRequestUpdates{
		Origin:        trimmed(req.Origin),
		Destination:   trimmed(req.Destination),
		DepartureDate: trimmed(req.DepartureDate),
		ReturnDate:    trimmed(req.ReturnDate),
		Reason:        trimmed(req.Reason),
		Accommodation: trimmed(req.Accommodation),
	}
	if req.Stops != nil {
		if trip.Type != entity.TripMultiCity {
			return nil, invalidTrip("only multi-city trips have stops")
		}
		stops, err := s.buildStops(*req.Stops)
		if err != nil {
			return nil, err
		}
		first, last := stops[0].DepartureDate, stops[len(stops)-1].Destination
		updates.Stops = &stops
		updates.DepartureDate = &first
		updates.Destination = &last
	} else if trip.Type == entity.TripMultiCity && (req.DepartureDate != nil || req.Destination != nil) {
		return nil, invalidTrip("change the stops of a multi-city trip instead of its destination or departure_date")
	}
	if updates.IsEmpty() {
		return trip, nil
	}

	merged := *trip
	updates.Apply(&merged)
	if merged.Origin == "" || merged.Reason == "" || merged.Destination == "" {
		return nil, invalidTrip("origin, destination and reason cannot be empty")
	}
	if merged.Type == entity.TripReturn && merged.ReturnDate == "" {
		return nil, invalidTrip("return_date is required")
	}
	if updates.DepartureDate != nil || updates.ReturnDate != nil {
		if err := s.validateDates(merged.DepartureDate, merged.ReturnDate); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateTripRequest(ctx, trip.ID, updates); err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgTripNotFound))
	}
	return s.Get(ctx, trip.ID)
}

// ListForRequester returns the requester's own trip requests.
func (s *TripService) ListForRequester(ctx context.Context, requesterID string, query entity.TripQuery) ([]entity.DbTripRequest, *entity.Meta, error) {
	query.RequesterID = requesterID
	query.ManagerID = ""
	trips, meta, err := s.repo.ListTripRequests(ctx, &query)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return trips, meta, nil
}

// Pending returns the pending requests awaiting managerID.
func (s *TripService) Pending(ctx context.Context, managerID string, query entity.TripQuery) ([]entity.DbTripRequest, *entity.Meta, error) {
	query.RequesterID = ""
	query.ManagerID = managerID
	query.Status = entity.TripPending
	trips, meta, err := s.repo.ListTripRequests(ctx, &query)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return trips, meta, nil
}

// decisions lists the status each target may be reached from.
var decisions = map[string]struct {
	from string
	msg  string
}{
	entity.TripApproved:  {entity.TripPending, apperr.MsgTripNotPending},
	entity.TripRejected:  {entity.TripPending, apperr.MsgTripNotPending},
	entity.TripConfirmed: {entity.TripApproved, apperr.MsgTripNotApproved},
}

// Decide moves a trip request to status: pending requests are approved or
// rejected, approved ones confirmed.
func (s *TripService) Decide(ctx context.Context, trip *entity.DbTripRequest, status string) (*entity.DbTripRequest, error) {
	rule, ok := decisions[status]
	if !ok {
		return nil, invalidTrip("unknown decision %q", status)
	}
	if trip.Status != rule.from {
		return nil, apperr.Conflict(rule.msg)
	}
	if err := s.repo.UpdateTripRequest(ctx, trip.ID, entity.TripRequestUpdates{Status: &status}); err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgTripNotFound))
	}
	updated := *trip
	updated.Status = status
	return &updated, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	return &out
}
