package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reservationRepo "medibook/database/repository/reservation"
	schedulerRepo "medibook/database/repository/scheduler"
	"medibook/models"
	"medibook/services/catalog"
	"medibook/utils"
)

// DefaultSchedulingEngine is the booking arbiter. It is the sole code path
// that closes a slot together with creating its reservation (and the
// inverse), so the ledger and the reservation store cannot diverge.
type DefaultSchedulingEngine struct {
	Scheduler    schedulerRepo.SchedulerRepository
	Reservations reservationRepo.ReservationRepository
	Window       models.CalendarWindow
	Fee          float64
	Reminders    ReminderScheduler
	Cache        *AvailabilityCache
	Now          func() time.Time

	locks *slotLocks
}

func NewDefaultSchedulingEngine(
	scheduler schedulerRepo.SchedulerRepository,
	reservations reservationRepo.ReservationRepository,
	window models.CalendarWindow,
	fee float64,
) *DefaultSchedulingEngine {
	return &DefaultSchedulingEngine{
		Scheduler:    scheduler,
		Reservations: reservations,
		Window:       window,
		Fee:          fee,
		locks:        newSlotLocks(),
	}
}

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now()
	}
	return time.Now()
}

// Reserve claims one open slot for a patient. The per-slot mutex plus the
// conditional ledger update in the repository guarantee that of two
// concurrent calls for the same slot exactly one succeeds; the other gets
// ErrSlotUnavailable and is expected to re-query availability.
func (se *DefaultSchedulingEngine) Reserve(ctx context.Context, in ReserveInput) (*models.Reservation, error) {
	logger := utils.GetLogger()

	if in.ProviderID == "" || in.PatientID == "" {
		return nil, ErrInvalidSlot
	}
	if !catalog.Contains(se.Window, se.now(), in.Slot) {
		return nil, ErrInvalidSlot
	}

	res := &models.Reservation{
		ID:          uuid.New().String(),
		ProviderID:  in.ProviderID,
		PatientID:   in.PatientID,
		PatientName: in.PatientName,
		SlotDate:    in.Slot.Date,
		SlotTime:    in.Slot.Time,
		Amount:      se.Fee,
		Status:      models.ReservationActive,
		CreatedAt:   se.now(),
	}

	// Critical section: check-then-mutate on one slot only. The lock is not
	// held across anything but the transactional claim.
	lock := se.locks.get(slotKey(in.ProviderID, in.Slot.Date, in.Slot.Time))
	lock.Lock()
	err := se.Scheduler.ReserveSlot(ctx, res)
	lock.Unlock()

	if err != nil {
		if errors.Is(err, schedulerRepo.ErrSlotNotOpen) {
			logger.Info("slot contention",
				zap.String("providerID", in.ProviderID),
				zap.String("date", in.Slot.Date),
				zap.String("time", in.Slot.Time))
			return nil, ErrSlotUnavailable
		}
		return nil, storeErr(err)
	}

	se.Cache.invalidate(ctx, in.ProviderID, in.Slot.Date)

	if se.Reminders != nil {
		if err := se.Reminders.ScheduleReminder(ctx, res); err != nil {
			// Reminders are best effort; the reservation stands.
			logger.Warn("failed to schedule reminder",
				zap.String("reservationID", res.ID), zap.Error(err))
		}
	}

	logger.Info("slot reserved",
		zap.String("reservationID", res.ID),
		zap.String("providerID", res.ProviderID),
		zap.String("date", res.SlotDate),
		zap.String("time", res.SlotTime))
	return res, nil
}

// Release cancels an Active reservation and re-opens its slot, making the
// capacity bookable again.
func (se *DefaultSchedulingEngine) Release(ctx context.Context, reservationID string) (*models.Reservation, error) {
	res, err := se.Scheduler.ReleaseSlot(ctx, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, schedulerRepo.ErrReservationNotFound):
			return nil, ErrNotFound
		case errors.Is(err, schedulerRepo.ErrReservationFinalized):
			return nil, ErrAlreadyFinalized
		default:
			return nil, storeErr(err)
		}
	}

	se.Cache.invalidate(ctx, res.ProviderID, res.SlotDate)

	utils.GetLogger().Info("reservation cancelled, slot reopened",
		zap.String("reservationID", res.ID),
		zap.String("providerID", res.ProviderID),
		zap.String("date", res.SlotDate),
		zap.String("time", res.SlotTime))
	return res, nil
}

// Complete finalizes an Active reservation without touching the ledger: a
// completed appointment's slot stays consumed, unlike cancellation which
// frees it.
func (se *DefaultSchedulingEngine) Complete(ctx context.Context, reservationID string) error {
	ok, err := se.Reservations.TransitionStatus(ctx, reservationID, models.ReservationCompleted)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		existing, err := se.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return storeErr(err)
		}
		if existing == nil {
			return ErrNotFound
		}
		return ErrAlreadyFinalized
	}

	utils.GetLogger().Info("reservation completed", zap.String("reservationID", reservationID))
	return nil
}

func (se *DefaultSchedulingEngine) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	res, err := se.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, storeErr(err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

func (se *DefaultSchedulingEngine) ProviderAppointments(ctx context.Context, providerID string) ([]models.Reservation, error) {
	out, err := se.Reservations.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (se *DefaultSchedulingEngine) PatientAppointments(ctx context.Context, patientID string) ([]models.Reservation, error) {
	out, err := se.Reservations.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}
