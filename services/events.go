package services

import (
	"errors"
	"fmt"
	"time"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAlreadyCheckedIn is returned when a member scans the QR code twice.
var ErrAlreadyCheckedIn = errors.New("already checked in to this event")

type EventService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Points *PointsService
}

func NewEventService(db *gorm.DB, logger *zap.Logger, points *PointsService) *EventService {
	return &EventService{DB: db, Logger: logger, Points: points}
}

type EventInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Location    string     `json:"location" validate:"max=200"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	PointsValue int64      `json:"points_value" validate:"min=0,max=10000"`
	ImagePath   string     `json:"image_path"`
}

func (s *EventService) Create(tenantID, createdByID string, in EventInput) (*models.Event, error) {
	event := models.Event{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Description: in.Description,
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		PointsValue: in.PointsValue,
		ImagePath:   in.ImagePath,
		CreatedByID: createdByID,
	}
	if err := s.DB.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) Update(tenantID, eventID string, in EventInput) (*models.Event, error) {
	var event models.Event
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, eventID).First(&event).Error; err != nil {
		return nil, err
	}
	event.Title = in.Title
	event.Slug = slug.Make(in.Title)
	event.Description = in.Description
	event.Location = in.Location
	event.StartsAt = in.StartsAt
	event.EndsAt = in.EndsAt
	event.PointsValue = in.PointsValue
	if in.ImagePath != "" {
		event.ImagePath = in.ImagePath
	}
	if err := s.DB.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) Delete(tenantID, eventID string) error {
	res := s.DB.Where("tenant_id = ? AND id = ?", tenantID, eventID).Delete(&models.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *EventService) Get(tenantID, eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, eventID).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns upcoming events first; pass includePast for the archive.
func (s *EventService) List(tenantID string, includePast bool) ([]models.Event, error) {
	q := s.DB.Where("tenant_id = ?", tenantID)
	if !includePast {
		q = q.Where("starts_at >= ?", time.Now().Add(-24*time.Hour))
	}
	var events []models.Event
	err := q.Order("starts_at ASC").Find(&events).Error
	return events, err
}

// RSVP upserts the member's response for an event.
func (s *EventService) RSVP(tenantID, eventID, userID, status string) (*models.EventRSVP, error) {
	switch status {
	case models.RSVPGoing, models.RSVPMaybe, models.RSVPDeclined:
	default:
		return nil, fmt.Errorf("invalid RSVP status %q", status)
	}

	if _, err := s.Get(tenantID, eventID); err != nil {
		return nil, err
	}

	var rsvp models.EventRSVP
	err := s.DB.Where("tenant_id = ? AND event_id = ? AND user_id = ?", tenantID, eventID, userID).
		First(&rsvp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rsvp = models.EventRSVP{
			ID:       uuid.NewString(),
			TenantID: tenantID,
			EventID:  eventID,
			UserID:   userID,
			Status:   status,
		}
		if err := s.DB.Create(&rsvp).Error; err != nil {
			return nil, err
		}
		return &rsvp, nil
	}
	if err != nil {
		return nil, err
	}
	rsvp.Status = status
	if err := s.DB.Save(&rsvp).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// CheckIn records attendance from a QR scan. Members check in once per
// event and earn the event's points; guests are recorded by name with
// zero points and no activity entry.
func (s *EventService) CheckIn(tenantID, eventID string, userID, guestName *string) (*models.EventCheckIn, error) {
	event, err := s.Get(tenantID, eventID)
	if err != nil {
		return nil, err
	}

	if guestName != nil && *guestName != "" {
		checkIn := models.EventCheckIn{
			ID:            uuid.NewString(),
			TenantID:      tenantID,
			EventID:       eventID,
			GuestName:     guestName,
			PointsAwarded: 0,
		}
		if err := s.DB.Create(&checkIn).Error; err != nil {
			return nil, err
		}
		return &checkIn, nil
	}

	if userID == nil || *userID == "" {
		return nil, errors.New("check-in requires a member or a guest name")
	}

	settings, err := s.Points.EnsureSettings(tenantID)
	if err != nil {
		return nil, err
	}
	points := event.PointsValue
	if points == 0 {
		points = settings.PointsPerEvent
	}

	checkIn := models.EventCheckIn{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		EventID:       eventID,
		UserID:        userID,
		PointsAwarded: points,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EventCheckIn{}).
			Where("tenant_id = ? AND event_id = ? AND user_id = ?", tenantID, eventID, *userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyCheckedIn
		}
		if err := tx.Create(&checkIn).Error; err != nil {
			// Two concurrent scans can both pass the count; the unique
			// index on (tenant_id, event_id, user_id) catches the loser.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCheckedIn
			}
			return err
		}
		desc := fmt.Sprintf("Attended event: %s", event.Title)
		if err := s.Points.appendTx(tx, tenantID, *userID, models.ActivityEventCheckIn, points, desc); err != nil {
			return err
		}
		_, _, err := s.Points.Badges.evaluateTx(tx, tenantID, *userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

// CheckInInfo summarizes attendance for the event detail screen.
func (s *EventService) CheckInInfo(tenantID, eventID string) (map[string]interface{}, error) {
	event, err := s.Get(tenantID, eventID)
	if err != nil {
		return nil, err
	}

	var checkIns []models.EventCheckIn
	if err := s.DB.Where("tenant_id = ? AND event_id = ?", tenantID, eventID).
		Order("checked_in_at ASC").
		Find(&checkIns).Error; err != nil {
		return nil, err
	}

	var members, guests int
	for _, ci := range checkIns {
		if ci.UserID != nil {
			members++
		} else {
			guests++
		}
	}

	return map[string]interface{}{
		"event_id":     event.ID,
		"title":        event.Title,
		"points_value": event.PointsValue,
		"total":        len(checkIns),
		"member_count": members,
		"guest_count":  guests,
		"check_ins":    checkIns,
	}, nil
}
