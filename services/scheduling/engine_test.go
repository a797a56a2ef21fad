package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	"medibook/models"
)

const (
	testProvider = "prov-1"
	testPatient  = "pat-1"
	testDate     = "10_9_2026"
	testTick     = "10:30 AM"
)

func mustOpen(t *testing.T, store *fakeStore, date string, ticks ...string) {
	t.Helper()
	for _, tick := range ticks {
		if err := store.AddTime(context.Background(), testProvider, date, tick); err != nil {
			t.Fatalf("seeding slot %s %s: %v", date, tick, err)
		}
	}
}

func reserveInput(tick string) ReserveInput {
	return ReserveInput{
		ProviderID:  testProvider,
		PatientID:   testPatient,
		PatientName: "Jordan Smith",
		Slot:        models.TimeSlot{Date: testDate, Time: tick},
	}
}

func TestReserve(t *testing.T) {
	t.Run("claims an open slot", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		res, err := eng.Reserve(context.Background(), reserveInput(testTick))
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}
		if res.ID == "" {
			t.Error("reservation missing id")
		}
		if res.Status != models.ReservationActive {
			t.Errorf("status = %q, want active", res.Status)
		}
		if res.Amount != 50 {
			t.Errorf("amount = %v, want 50", res.Amount)
		}

		// Slot is consumed: it must be gone from the open set.
		avail := newTestAvailability(store)
		open, err := avail.ListOpen(context.Background(), testProvider, testDate)
		if err != nil {
			t.Fatalf("ListOpen() error = %v", err)
		}
		if len(open) != 0 {
			t.Errorf("open set after reserve = %v, want empty", open)
		}
	})

	t.Run("slot never opened", func(t *testing.T) {
		store := newFakeStore()
		eng := newTestEngine(store)

		_, err := eng.Reserve(context.Background(), reserveInput(testTick))
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Errorf("Reserve() error = %v, want ErrSlotUnavailable", err)
		}
	})

	t.Run("same slot twice", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		if _, err := eng.Reserve(context.Background(), reserveInput(testTick)); err != nil {
			t.Fatalf("first Reserve() error = %v", err)
		}
		_, err := eng.Reserve(context.Background(), reserveInput(testTick))
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Errorf("second Reserve() error = %v, want ErrSlotUnavailable", err)
		}
	})

	t.Run("slot outside window", func(t *testing.T) {
		store := newFakeStore()
		eng := newTestEngine(store)

		cases := []models.TimeSlot{
			{Date: "4_9_2026", Time: testTick},     // yesterday
			{Date: "5_10_2026", Time: testTick},    // past the window
			{Date: testDate, Time: "9:00 AM"},      // before opening
			{Date: testDate, Time: "10:15 AM"},     // off grid
			{Date: "banana", Time: testTick},       // malformed date
			{Date: testDate, Time: "half past"},    // malformed time
		}
		for _, slot := range cases {
			in := reserveInput(testTick)
			in.Slot = slot
			if _, err := eng.Reserve(context.Background(), in); !errors.Is(err, ErrInvalidSlot) {
				t.Errorf("Reserve(%+v) error = %v, want ErrInvalidSlot", slot, err)
			}
		}
	})

	t.Run("missing identities", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		in := reserveInput(testTick)
		in.PatientID = ""
		if _, err := eng.Reserve(context.Background(), in); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Reserve() without patient error = %v, want ErrInvalidSlot", err)
		}
		in = reserveInput(testTick)
		in.ProviderID = ""
		if _, err := eng.Reserve(context.Background(), in); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Reserve() without provider error = %v, want ErrInvalidSlot", err)
		}
	})

	t.Run("store failure is transient", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		store.failNext = errors.New("connection reset")
		_, err := eng.Reserve(context.Background(), reserveInput(testTick))
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Errorf("Reserve() error = %v, want ErrStoreUnavailable", err)
		}
	})
}

// Two concurrent reservations race for one slot; exactly one may win.
func TestReserveConcurrent(t *testing.T) {
	const attempts = 32

	store := newFakeStore()
	mustOpen(t, store, testDate, testTick)
	eng := newTestEngine(store)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Reserve(context.Background(), reserveInput(testTick))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotUnavailable):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
	if len(store.reservations) != 1 {
		t.Errorf("stored reservations = %d, want 1", len(store.reservations))
	}
}

func TestRelease(t *testing.T) {
	t.Run("reopens the slot", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		res, err := eng.Reserve(context.Background(), reserveInput(testTick))
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}

		released, err := eng.Release(context.Background(), res.ID)
		if err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if released.Status != models.ReservationCancelled {
			t.Errorf("status = %q, want cancelled", released.Status)
		}
		if released.CancelledAt == nil {
			t.Error("CancelledAt not set")
		}

		avail := newTestAvailability(store)
		open, err := avail.ListOpen(context.Background(), testProvider, testDate)
		if err != nil {
			t.Fatalf("ListOpen() error = %v", err)
		}
		if len(open) != 1 || open[0] != testTick {
			t.Errorf("open set after release = %v, want [%s]", open, testTick)
		}

		// Slot is bookable again.
		if _, err := eng.Reserve(context.Background(), reserveInput(testTick)); err != nil {
			t.Errorf("re-Reserve() after release error = %v", err)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		store := newFakeStore()
		eng := newTestEngine(store)
		if _, err := eng.Release(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Release() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("double cancel", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		res, err := eng.Reserve(context.Background(), reserveInput(testTick))
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}
		if _, err := eng.Release(context.Background(), res.ID); err != nil {
			t.Fatalf("first Release() error = %v", err)
		}

		if _, err := eng.Release(context.Background(), res.ID); !errors.Is(err, ErrAlreadyFinalized) {
			t.Errorf("second Release() error = %v, want ErrAlreadyFinalized", err)
		}

		// The retry must not have double-opened the slot.
		avail := newTestAvailability(store)
		open, _ := avail.ListOpen(context.Background(), testProvider, testDate)
		if len(open) != 1 {
			t.Errorf("open set after double cancel = %v, want one entry", open)
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("slot stays consumed", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		res, err := eng.Reserve(context.Background(), reserveInput(testTick))
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}
		if err := eng.Complete(context.Background(), res.ID); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		got, err := eng.GetReservation(context.Background(), res.ID)
		if err != nil {
			t.Fatalf("GetReservation() error = %v", err)
		}
		if got.Status != models.ReservationCompleted {
			t.Errorf("status = %q, want completed", got.Status)
		}

		avail := newTestAvailability(store)
		open, _ := avail.ListOpen(context.Background(), testProvider, testDate)
		if len(open) != 0 {
			t.Errorf("open set after complete = %v, want empty", open)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		store := newFakeStore()
		eng := newTestEngine(store)
		if err := eng.Complete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Complete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("after cancel", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		res, _ := eng.Reserve(context.Background(), reserveInput(testTick))
		if _, err := eng.Release(context.Background(), res.ID); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if err := eng.Complete(context.Background(), res.ID); !errors.Is(err, ErrAlreadyFinalized) {
			t.Errorf("Complete() after cancel error = %v, want ErrAlreadyFinalized", err)
		}
	})

	t.Run("cancel after complete", func(t *testing.T) {
		store := newFakeStore()
		mustOpen(t, store, testDate, testTick)
		eng := newTestEngine(store)

		res, _ := eng.Reserve(context.Background(), reserveInput(testTick))
		if err := eng.Complete(context.Background(), res.ID); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if _, err := eng.Release(context.Background(), res.ID); !errors.Is(err, ErrAlreadyFinalized) {
			t.Errorf("Release() after complete error = %v, want ErrAlreadyFinalized", err)
		}

		// Completing must not have reopened anything for a later cancel to leak.
		avail := newTestAvailability(store)
		open, _ := avail.ListOpen(context.Background(), testProvider, testDate)
		if len(open) != 0 {
			t.Errorf("open set = %v, want empty", open)
		}
	})
}

func TestDashboard(t *testing.T) {
	store := newFakeStore()
	mustOpen(t, store, testDate, "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM")
	eng := newTestEngine(store)

	book := func(patient, tick string) *models.Reservation {
		t.Helper()
		in := reserveInput(tick)
		in.PatientID = patient
		res, err := eng.Reserve(context.Background(), in)
		if err != nil {
			t.Fatalf("Reserve(%s, %s) error = %v", patient, tick, err)
		}
		return res
	}

	first := book("pat-1", "10:00 AM")
	book("pat-1", "10:30 AM")
	third := book("pat-2", "11:00 AM")
	book("pat-3", "11:30 AM")

	if err := eng.Complete(context.Background(), first.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if err := store.MarkPaid(context.Background(), third.ID); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	stats, err := eng.Dashboard(context.Background(), testProvider)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if stats.Appointments != 4 {
		t.Errorf("appointments = %d, want 4", stats.Appointments)
	}
	if stats.Patients != 3 {
		t.Errorf("patients = %d, want 3", stats.Patients)
	}
	// One completed plus one paid reservation at the 50 fee.
	if stats.Earnings != 100 {
		t.Errorf("earnings = %v, want 100", stats.Earnings)
	}
	if len(stats.LatestAppointments) != 4 {
		t.Errorf("latest appointments = %d, want 4", len(stats.LatestAppointments))
	}
	// Newest first.
	if stats.LatestAppointments[0].SlotTime != "11:30 AM" {
		t.Errorf("latest[0] = %q, want 11:30 AM", stats.LatestAppointments[0].SlotTime)
	}
}

func TestAppointmentListings(t *testing.T) {
	store := newFakeStore()
	mustOpen(t, store, testDate, "10:00 AM", "10:30 AM")
	eng := newTestEngine(store)

	in := reserveInput("10:00 AM")
	if _, err := eng.Reserve(context.Background(), in); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	in = reserveInput("10:30 AM")
	in.PatientID = "pat-2"
	if _, err := eng.Reserve(context.Background(), in); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	byProvider, err := eng.ProviderAppointments(context.Background(), testProvider)
	if err != nil {
		t.Fatalf("ProviderAppointments() error = %v", err)
	}
	if len(byProvider) != 2 {
		t.Errorf("provider appointments = %d, want 2", len(byProvider))
	}

	byPatient, err := eng.PatientAppointments(context.Background(), "pat-2")
	if err != nil {
		t.Fatalf("PatientAppointments() error = %v", err)
	}
	if len(byPatient) != 1 || byPatient[0].SlotTime != "10:30 AM" {
		t.Errorf("patient appointments = %+v, want the 10:30 AM booking", byPatient)
	}
}
