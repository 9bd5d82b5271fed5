package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"saludagenda/models"
	"saludagenda/services/schedule"
	"saludagenda/utils"
)

// AddBlockedSlot declares a doctor unavailable for a range. The candidate is
// checked against the day's existing blocks and booked appointments with the
// same rules as a booking: any overlap of either kind rejects it.
func (s *DefaultService) AddBlockedSlot(ctx context.Context, doctorID string, req models.BlockRequest) (*models.BlockedSlot, error) {
	if !models.ValidDate(req.Date) {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, req.Date)
	}
	if !models.ValidTimeOfDay(req.Start) || !models.ValidTimeOfDay(req.End) {
		return nil, fmt.Errorf("%w: invalid time range %q-%q, expected HH:MM", ErrInvalidInput, req.Start, req.End)
	}

	slot := models.BlockedSlot{
		ID:        uuid.New().String(),
		DoctorID:  doctorID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Note:      strings.TrimSpace(req.Note),
		CreatedAt: s.now(),
	}

	blocks, err := s.Blocks.GetByDoctorAndDate(ctx, doctorID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocked slots: %w", err)
	}
	appts, err := s.Appointments.GetByDoctorAndDate(ctx, doctorID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day appointments: %w", err)
	}

	occupied := schedule.OccupiedIntervals(blocks, appts)
	if err := schedule.CheckCandidate(slot.Interval(), occupied); err != nil {
		return nil, err
	}

	if err := s.Blocks.Insert(ctx, slot); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("blocked slot added",
		zap.String("doctorID", doctorID),
		zap.String("date", slot.Date),
		zap.String("start", slot.Start),
		zap.String("end", slot.End))
	return &slot, nil
}

// RemoveBlockedSlot deletes a blocked slot by id. Doctors can only delete
// slots on their own agenda; admins delete unscoped. Someone else's slot id
// reads as not found rather than revealing it exists.
func (s *DefaultService) RemoveBlockedSlot(ctx context.Context, actor models.User, slotID string) error {
	scope := ""
	if actor.Role == models.RoleDoctor {
		scope = actor.ID
	}
	return s.Blocks.Delete(ctx, scope, slotID)
}

// ListBlockedSlots lists all of a doctor's blocked slots.
func (s *DefaultService) ListBlockedSlots(ctx context.Context, doctorID string) ([]models.BlockedSlot, error) {
	return s.Blocks.GetByDoctor(ctx, doctorID)
}
