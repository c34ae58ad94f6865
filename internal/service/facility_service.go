package service

import (
	"barefoot/internal/apperr"
	"barefoot/internal/entity"
	"barefoot/internal/model"
	"barefoot/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// FacilityService 住宿设施服务
type FacilityService struct {
	repo   model.Repository
	images imageStore
	now    func() time.Time
}

// NewFacilityService 创建住宿设施服务实例
func NewFacilityService(repo model.Repository, store storage.Storage, publicBase string) *FacilityService {
	return &FacilityService{
		repo:   repo,
		images: imageStore{storage: store, publicBase: publicBase},
		now:    time.Now,
	}
}

// Create registers a facility, storing its picture when one is supplied.
func (s *FacilityService) Create(ctx context.Context, creatorID string, req entity.FacilityCreateRequest, image []byte, ext string) (*entity.DbFacility, error) {
	facility := &entity.DbFacility{
		Name:      strings.TrimSpace(req.Name),
		Location:  strings.TrimSpace(req.Location),
		Address:   strings.TrimSpace(req.Address),
		Amenities: entity.StringArray(req.Amenities).Clean(),
		CreatedBy: creatorID,
	}
	if facility.Name == "" || facility.Location == "" {
		return nil, apperr.BadRequest(apperr.MsgInvalidPayload)
	}
	if len(image) > 0 {
		url, err := s.images.save(ctx, storage.CategoryFacility, image, ext)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		facility.Image = url
	}
	if err := s.repo.CreateFacility(ctx, facility); err != nil {
		return nil, apperr.Internal(err)
	}
	return facility, nil
}

// Get loads a facility with its rooms.
func (s *FacilityService) Get(ctx context.Context, id string) (*entity.DbFacility, error) {
	facility, err := s.repo.GetFacility(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgFacilityNotFound))
	}
	return facility, nil
}

// List pages through facilities.
func (s *FacilityService) List(ctx context.Context, query entity.FacilityQuery) ([]entity.DbFacility, *entity.Meta, error) {
	facilities, meta, err := s.repo.ListFacilities(ctx, &query)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return facilities, meta, nil
}

// CreateRoom adds an available room to facility.
func (s *FacilityService) CreateRoom(ctx context.Context, facility *entity.DbFacility, req entity.RoomCreateRequest) (*entity.DbRoom, error) {
	roomType := strings.TrimSpace(req.RoomType)
	if roomType == "" || req.Cost < 0 {
		return nil, apperr.BadRequest(apperr.MsgInvalidPayload)
	}
	room := &entity.DbRoom{
		FacilityID: facility.ID,
		RoomType:   roomType,
		Cost:       req.Cost,
		Status:     entity.RoomAvailable,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, apperr.Internal(err)
	}
	return room, nil
}

// Reaction returns the user's current reaction to a facility, or "" when none.
func (s *FacilityService) Reaction(ctx context.Context, facilityID, userID string) (string, error) {
	reaction, err := s.repo.GetFacilityReaction(ctx, facilityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	return reaction.Kind, nil
}

// React records a like or unlike, refusing to repeat the current reaction.
func (s *FacilityService) React(ctx context.Context, facilityID, userID, kind string) (*entity.DbFacility, error) {
	if kind != entity.ReactionLike && kind != entity.ReactionUnlike {
		return nil, apperr.BadRequest(apperr.MsgInvalidPayload)
	}
	current, err := s.Reaction(ctx, facilityID, userID)
	if err != nil {
		return nil, err
	}
	if current == kind {
		if kind == entity.ReactionLike {
			return nil, apperr.Conflict(apperr.MsgAlreadyLiked)
		}
		return nil, apperr.Conflict(apperr.MsgAlreadyUnliked)
	}
	facility, err := s.repo.SetFacilityReaction(ctx, facilityID, userID, kind)
	if err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgFacilityNotFound))
	}
	return facility, nil
}

// Rate records userID's 1-5 score for a facility, replacing any earlier score.
func (s *FacilityService) Rate(ctx context.Context, facilityID, userID string, rating int) (*entity.DbFacility, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.BadRequest(apperr.MsgInvalidRating)
	}
	facility, err := s.repo.RateFacility(ctx, facilityID, userID, rating)
	if err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgFacilityNotFound))
	}
	return facility, nil
}

// Feedback leaves a comment on a facility.
func (s *FacilityService) Feedback(ctx context.Context, facilityID, userID string, req entity.FeedbackRequest) (*entity.DbFacilityFeedback, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, apperr.BadRequest(apperr.MsgEmptyFeedback)
	}
	feedback := &entity.DbFacilityFeedback{
		FacilityID: facilityID,
		UserID:     userID,
		Comment:    comment,
	}
	if err := s.repo.CreateFacilityFeedback(ctx, feedback); err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgFacilityNotFound))
	}
	return feedback, nil
}

// ListFeedback pages through a facility's feedback, newest first.
func (s *FacilityService) ListFeedback(ctx context.Context, facilityID string, query entity.FeedbackQuery) ([]entity.DbFacilityFeedback, *entity.Meta, error) {
	query.FacilityID = facilityID
	feedback, meta, err := s.repo.ListFacilityFeedback(ctx, &query)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return feedback, meta, nil
}

func invalidBooking(format string, args ...any) error {
	return apperr.BadRequest(apperr.MsgInvalidBooking, fmt.Sprintf(format, args...))
}

// Book reserves an available room of a facility for userID.
func (s *FacilityService) Book(ctx context.Context, userID string, req entity.BookingRequest) (*entity.DbBooking, error) {
	checkIn, err := time.Parse(entity.DateLayout, strings.TrimSpace(req.CheckIn))
	if err != nil {
		return nil, invalidBooking("check_in must be a date formatted as YYYY-MM-DD")
	}
	checkOut, err := time.Parse(entity.DateLayout, strings.TrimSpace(req.CheckOut))
	if err != nil {
		return nil, invalidBooking("check_out must be a date formatted as YYYY-MM-DD")
	}
	if checkIn.Before(s.now().UTC().Truncate(24 * time.Hour)) {
		return nil, invalidBooking("check_in cannot be in the past")
	}
	if !checkOut.After(checkIn) {
		return nil, invalidBooking("check_out must be after check_in")
	}

	if _, err := s.Get(ctx, req.FacilityID); err != nil {
		return nil, err
	}
	room, err := s.repo.GetRoom(ctx, strings.TrimSpace(req.RoomID))
	if err != nil {
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgRoomNotFound))
	}
	if room.FacilityID != strings.TrimSpace(req.FacilityID) {
		return nil, apperr.NotFound(apperr.MsgRoomNotFound)
	}

	booking := &entity.DbBooking{
		FacilityID: room.FacilityID,
		RoomID:     room.ID,
		UserID:     userID,
		CheckIn:    checkIn.Format(entity.DateLayout),
		CheckOut:   checkOut.Format(entity.DateLayout),
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, entity.ErrRoomUnavailable) {
			return nil, apperr.Conflict(apperr.MsgRoomUnavailable)
		}
		return nil, lookupErr(err, apperr.NotFound(apperr.MsgRoomNotFound))
	}
	return booking, nil
}
