package schedule

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type regKey struct {
	scheduleID int64
	userID     int64
}

type memberKey struct {
	userID int64
	clubID int64
}

type fakeScheduleRepo struct {
	schedules     map[int64]*Schedule
	registrations map[regKey]*Registration
	approved      map[memberKey]bool
	nextID        int64
	nextRegID     int64
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedules:     make(map[int64]*Schedule),
		registrations: make(map[regKey]*Registration),
		approved:      make(map[memberKey]bool),
	}
}

func (r *fakeScheduleRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeScheduleRepo) GetSchedule(ctx context.Context, id int64) (*Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) ListByClub(ctx context.Context, clubID int64) ([]Schedule, error) {
	var result []Schedule
	for _, s := range r.schedules {
		if s.ClubID == clubID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (r *fakeScheduleRepo) CreateSchedule(ctx context.Context, s *Schedule) error {
	r.nextID++
	s.ID = r.nextID
	copied := *s
	r.schedules[s.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) UpdateScheduleFields(ctx context.Context, scheduleID int64, fields map[string]interface{}) error {
	s, ok := r.schedules[scheduleID]
	if !ok {
		return ErrScheduleNotFound
	}
	if name, ok := fields["name"].(string); ok {
		s.Name = name
	}
	if content, ok := fields["content"].(string); ok {
		s.Content = content
	}
	if location, ok := fields["location"].(string); ok {
		s.Location = location
	}
	if start, ok := fields["start_date"].(time.Time); ok {
		s.StartDate = start
	}
	if end, ok := fields["end_date"].(time.Time); ok {
		s.EndDate = end
	}
	return nil
}

func (r *fakeScheduleRepo) IsApprovedMember(ctx context.Context, userID, clubID int64) (bool, error) {
	return r.approved[memberKey{userID, clubID}], nil
}

func (r *fakeScheduleRepo) GetRegistration(ctx context.Context, scheduleID, userID int64) (*Registration, error) {
	reg, ok := r.registrations[regKey{scheduleID, userID}]
	if !ok {
		return nil, ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeScheduleRepo) CreateRegistration(ctx context.Context, reg *Registration) error {
	key := regKey{reg.ScheduleID, reg.UserID}
	if _, exists := r.registrations[key]; exists {
		return errors.New("unique constraint violation")
	}
	r.nextRegID++
	reg.ID = r.nextRegID
	copied := *reg
	r.registrations[key] = &copied
	return nil
}

func (r *fakeScheduleRepo) DeleteRegistration(ctx context.Context, scheduleID, userID int64) error {
	delete(r.registrations, regKey{scheduleID, userID})
	return nil
}

func (r *fakeScheduleRepo) approve(userID, clubID int64) {
	r.approved[memberKey{userID, clubID}] = true
}

func day(n int) time.Time {
	return time.Date(2026, time.September, n, 10, 0, 0, 0, time.UTC)
}

func TestCreateScheduleRequiresApprovedMember(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewService(repo)

	in := CreateInput{ClubID: 1, Name: "Picnic", StartDate: day(1), EndDate: day(1)}
	if _, err := svc.Create(context.Background(), 9, in); !errors.Is(err, ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
}

func TestCreateScheduleRejectsInvertedRange(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.approve(2, 1)
	svc := NewService(repo)

	in := CreateInput{ClubID: 1, Name: "Picnic", StartDate: day(2), EndDate: day(1)}
	if _, err := svc.Create(context.Background(), 2, in); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestCreateSchedule(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.approve(2, 1)
	svc := NewService(repo)

	in := CreateInput{ClubID: 1, Name: "Picnic", Location: "River park", StartDate: day(1), EndDate: day(1)}
	result, err := svc.Create(context.Background(), 2, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if result.CreatorID != 2 {
		t.Fatalf("expected creator 2, got %d", result.CreatorID)
	}
}

func TestRegisterLifecycle(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.approve(2, 1)
	repo.approve(5, 1)
	svc := NewService(repo)

	sched, err := svc.Create(context.Background(), 2, CreateInput{
		ClubID: 1, Name: "Picnic", StartDate: day(1), EndDate: day(1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	reg, err := svc.Register(context.Background(), sched.ID, 5)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.ScheduleID != sched.ID || reg.UserID != 5 {
		t.Fatalf("unexpected registration %+v", reg)
	}

	if _, err := svc.Register(context.Background(), sched.ID, 5); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	if err := svc.Cancel(context.Background(), sched.ID, 5); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Cancel(context.Background(), sched.ID, 5); !errors.Is(err, ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound on second cancel, got %v", err)
	}

	// A cancelled registration does not block re-registering.
	if _, err := svc.Register(context.Background(), sched.ID, 5); err != nil {
		t.Fatalf("re-register after cancel: %v", err)
	}
}

func TestRegisterRequiresApprovedMember(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.approve(2, 1)
	svc := NewService(repo)

	sched, err := svc.Create(context.Background(), 2, CreateInput{
		ClubID: 1, Name: "Picnic", StartDate: day(1), EndDate: day(1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Register(context.Background(), sched.ID, 9); !errors.Is(err, ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
}

func TestRegisterScheduleNotFound(t *testing.T) {
	svc := NewService(newFakeScheduleRepo())
	if _, err := svc.Register(context.Background(), 99, 5); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestUpdateScheduleValidatesEffectiveRange(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.approve(2, 1)
	svc := NewService(repo)

	sched, err := svc.Create(context.Background(), 2, CreateInput{
		ClubID: 1, Name: "Picnic", StartDate: day(1), EndDate: day(3),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving only the start beyond the stored end must fail.
	late := day(5)
	if _, err := svc.Update(context.Background(), sched.ID, UpdateInput{StartDate: &late}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	name := "Longer picnic"
	end := day(4)
	updated, err := svc.Update(context.Background(), sched.ID, UpdateInput{Name: &name, EndDate: &end})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Longer picnic" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if !updated.EndDate.Equal(day(4)) {
		t.Fatalf("expected end moved to day 4, got %v", updated.EndDate)
	}
	if !updated.StartDate.Equal(day(1)) {
		t.Fatalf("expected start untouched, got %v", updated.StartDate)
	}
}

func TestListOrderedByStartDate(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.approve(2, 1)
	svc := NewService(repo)

	for _, n := range []int{9, 3, 6} {
		if _, err := svc.Create(context.Background(), 2, CreateInput{
			ClubID: 1, Name: "Event", StartDate: day(n), EndDate: day(n),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	schedules, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(schedules) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(schedules))
	}
	for i := 1; i < len(schedules); i++ {
		if schedules[i].StartDate.Before(schedules[i-1].StartDate) {
			t.Fatalf("schedules out of order at %d", i)
		}
	}
}
