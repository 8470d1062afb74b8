package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
)

// memDB общее хранилище для фейков. Все фейки работают под одним мьютексом,
// а memTx держит его на время транзакции, как блокировка строки курса в Postgres.
type memDB struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	slots       map[int64]*model.ScheduleSlot
	offerings   map[int64]*model.CourseOffering
	users       map[int64]*model.User
	enrollments []*model.Enrollment
	subjects    map[int64]*model.Subject
	periods     map[int64]*model.AcademicPeriod
	nextID      int64

	failCount error
}

func newMemDB() *memDB {
	return &memDB{
		slots:     make(map[int64]*model.ScheduleSlot),
		offerings: make(map[int64]*model.CourseOffering),
		users:     make(map[int64]*model.User),
		subjects:  make(map[int64]*model.Subject),
		periods:   make(map[int64]*model.AcademicPeriod),
		nextID:    1000,
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) addOffering(o *model.CourseOffering) *model.CourseOffering {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.offerings[o.ID] = o
	return o
}

func (db *memDB) addStudent(id, groupID int64) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &model.User{ID: id, Role: model.RoleStudent, GroupID: &groupID, IsActive: true}
	db.users[id] = u
	return u
}

func (db *memDB) addSlot(s *model.ScheduleSlot) *model.ScheduleSlot {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.slots[s.ID] = s
	return s
}

// memTx сериализует транзакции целиком
type memTx struct {
	db    *memDB
	calls int
}

type memTxKey struct{}

func (t *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()
	t.calls++
	return fn(context.WithValue(ctx, memTxKey{}, true))
}

type memSlots struct{ db *memDB }

func (s memSlots) Create(_ context.Context, slot *model.ScheduleSlot) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	slot.ID = s.db.id()
	copied := *slot
	s.db.slots[slot.ID] = &copied
	return nil
}

func (s memSlots) Update(_ context.Context, slot *model.ScheduleSlot) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.slots[slot.ID]; !ok {
		return errors.New("slot not found")
	}
	copied := *slot
	s.db.slots[slot.ID] = &copied
	return nil
}

func (s memSlots) Deactivate(_ context.Context, slotID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if slot, ok := s.db.slots[slotID]; ok {
		slot.IsActive = false
	}
	return nil
}

func (s memSlots) GetByID(_ context.Context, id int64) (*model.ScheduleSlot, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	slot, ok := s.db.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (s memSlots) GetByCourseOffering(_ context.Context, offeringID int64) ([]*model.ScheduleSlot, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.ScheduleSlot
	for _, slot := range s.db.slots {
		if slot.CourseOfferingID == offeringID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s memSlots) ListActiveByWeekday(_ context.Context, weekday time.Weekday) ([]*model.ScheduleSlot, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.ScheduleSlot
	for _, slot := range s.db.slots {
		if slot.IsActive && slot.DayOfWeek == weekday {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s memSlots) LockWeekday(ctx context.Context, _ time.Weekday) error {
	if ctx.Value(memTxKey{}) == nil {
		return errors.New("LockWeekday requires a transaction")
	}
	return nil
}

type memOfferings struct{ db *memDB }

func (o memOfferings) GetByID(_ context.Context, id int64) (*model.CourseOffering, error) {
	o.db.mu.Lock()
	defer o.db.mu.Unlock()
	offering, ok := o.db.offerings[id]
	if !ok {
		return nil, nil
	}
	copied := *offering
	return &copied, nil
}

func (o memOfferings) GetByIDForUpdate(ctx context.Context, id int64) (*model.CourseOffering, error) {
	if ctx.Value(memTxKey{}) == nil {
		return nil, errors.New("GetByIDForUpdate requires a transaction")
	}
	return o.GetByID(ctx, id)
}

func (o memOfferings) UpdateCapacity(ctx context.Context, id int64, maxSeats int) error {
	if ctx.Value(memTxKey{}) == nil {
		return errors.New("UpdateCapacity requires a transaction")
	}
	o.db.mu.Lock()
	defer o.db.mu.Unlock()
	offering, ok := o.db.offerings[id]
	if !ok {
		return errors.New("offering not found")
	}
	offering.MaxSeats = maxSeats
	return nil
}

type memUsers struct{ db *memDB }

func (u memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	user, ok := u.db.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (u memUsers) GetActiveStudentsByGroup(_ context.Context, groupID int64) ([]*model.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	var out []*model.User
	for _, user := range u.db.users {
		if !user.IsActive || !user.IsStudent() || user.GroupID == nil || *user.GroupID != groupID {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memEnrollments struct{ db *memDB }

func (e memEnrollments) Create(_ context.Context, enrollment *model.Enrollment) error {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	for _, existing := range e.db.enrollments {
		if existing.IsActive() && existing.StudentID == enrollment.StudentID &&
			existing.CourseOfferingID == enrollment.CourseOfferingID {
			return apperrors.New(apperrors.CodeDuplicateEnrollment, "unique index violated")
		}
	}
	enrollment.ID = e.db.id()
	enrollment.EnrolledAt = time.Now().UTC()
	enrollment.UpdatedAt = enrollment.EnrolledAt
	copied := *enrollment
	e.db.enrollments = append(e.db.enrollments, &copied)
	return nil
}

func (e memEnrollments) GetActive(_ context.Context, offeringID, studentID int64) (*model.Enrollment, error) {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	for _, existing := range e.db.enrollments {
		if existing.IsActive() && existing.StudentID == studentID && existing.CourseOfferingID == offeringID {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, nil
}

func (e memEnrollments) CountActive(_ context.Context, offeringID int64) (int, error) {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	if e.db.failCount != nil {
		return 0, e.db.failCount
	}
	count := 0
	for _, existing := range e.db.enrollments {
		if existing.IsActive() && existing.CourseOfferingID == offeringID {
			count++
		}
	}
	return count, nil
}

func (e memEnrollments) UpdateStatus(_ context.Context, id int64, status model.EnrollmentStatus, modifiedBy *int64, at time.Time) error {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	for _, existing := range e.db.enrollments {
		if existing.ID == id && existing.IsActive() {
			existing.Status = status
			existing.ModifiedBy = modifiedBy
			existing.UpdatedAt = at
			return nil
		}
	}
	return errors.New("enrollment not found or not active")
}

func (e memEnrollments) ListByOffering(_ context.Context, offeringID int64) ([]*model.Enrollment, error) {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	var out []*model.Enrollment
	for _, existing := range e.db.enrollments {
		if existing.CourseOfferingID == offeringID {
			copied := *existing
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memCatalog struct{ db *memDB }

func (c memCatalog) GetSubjectByID(_ context.Context, id int64) (*model.Subject, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	return c.db.subjects[id], nil
}

func (c memCatalog) GetPeriodByID(_ context.Context, id int64) (*model.AcademicPeriod, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	return c.db.periods[id], nil
}

var (
	_ SlotStore       = memSlots{}
	_ OfferingStore   = memOfferings{}
	_ StudentStore    = memUsers{}
	_ EnrollmentStore = memEnrollments{}
	_ CatalogStore    = memCatalog{}
	_ Transactor      = (*memTx)(nil)
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tod(s string) model.TimeOfDay {
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}
