package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
)

// memDB - хранилище в памяти для тестов сервисов
type memDB struct {
	mu sync.Mutex

	users         map[int64]*model.User
	subjects      map[int64]*model.Subject
	assignments   []*model.SubjectAssignment
	windows       map[int64]*model.AvailabilityWindow
	bookings      map[int64]*model.Booking
	notifications map[int64]*model.Notification
	nextID        int64

	notificationErr error
	bulkCalls       int
	assignRace      bool
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[int64]*model.User{},
		subjects:      map[int64]*model.Subject{},
		windows:       map[int64]*model.AvailabilityWindow{},
		bookings:      map[int64]*model.Booking{},
		notifications: map[int64]*model.Notification{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type fakeUsers struct{ db *memDB }

func (r fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.users[id], nil
}

type fakeSubjects struct{ db *memDB }

func (r fakeSubjects) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.subjects[id], nil
}

type fakeAssignments struct{ db *memDB }

func (r fakeAssignments) exists(professorID, subjectID int64) bool {
	return slices.ContainsFunc(r.db.assignments, func(a *model.SubjectAssignment) bool {
		return a.ProfessorID == professorID && a.SubjectID == subjectID
	})
}

func (r fakeAssignments) Exists(_ context.Context, professorID, subjectID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.assignRace {
		// другой запрос вставит пару между Exists и Create
		return false, nil
	}
	return r.exists(professorID, subjectID), nil
}

func (r fakeAssignments) Create(_ context.Context, a *model.SubjectAssignment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.exists(a.ProfessorID, a.SubjectID) {
		return repository.ErrAlreadyExists
	}
	a.ID = r.db.id()
	r.db.assignments = append(r.db.assignments, a)
	return nil
}

func (r fakeAssignments) Delete(_ context.Context, professorID, subjectID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.assignments = slices.DeleteFunc(r.db.assignments, func(a *model.SubjectAssignment) bool {
		return a.ProfessorID == professorID && a.SubjectID == subjectID
	})
	return nil
}

func (r fakeAssignments) ListSubjectsByProfessor(_ context.Context, professorID int64) ([]*model.Subject, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Subject
	for _, a := range r.db.assignments {
		if a.ProfessorID == professorID {
			out = append(out, r.db.subjects[a.SubjectID])
		}
	}
	return out, nil
}

func (r fakeAssignments) ListProfessorsBySubject(_ context.Context, subjectID int64, onlyWithAvailability bool) ([]*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.User
	for _, a := range r.db.assignments {
		if a.SubjectID != subjectID {
			continue
		}
		if onlyWithAvailability && !r.hasWindows(a.ProfessorID, subjectID) {
			continue
		}
		out = append(out, r.db.users[a.ProfessorID])
	}
	return out, nil
}

func (r fakeAssignments) hasWindows(professorID, subjectID int64) bool {
	for _, w := range r.db.windows {
		if w.ProfessorID == professorID && w.SubjectID == subjectID {
			return true
		}
	}
	return false
}

type fakeAvailability struct{ db *memDB }

func (r fakeAvailability) Create(_ context.Context, w *model.AvailabilityWindow) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	w.ID = r.db.id()
	cp := *w
	r.db.windows[w.ID] = &cp
	return nil
}

func (r fakeAvailability) Update(_ context.Context, w *model.AvailabilityWindow) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.windows[w.ID]; !ok {
		return false, nil
	}
	cp := *w
	r.db.windows[w.ID] = &cp
	return true, nil
}

func (r fakeAvailability) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.windows[id]; !ok {
		return false, nil
	}
	delete(r.db.windows, id)
	return true, nil
}

func (r fakeAvailability) GetByID(_ context.Context, id int64) (*model.AvailabilityWindow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.windows[id], nil
}

func (r fakeAvailability) filter(keep func(w *model.AvailabilityWindow) bool) []*model.AvailabilityWindow {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.AvailabilityWindow
	for _, w := range r.db.windows {
		if keep(w) {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b *model.AvailabilityWindow) int { return int(a.ID - b.ID) })
	return out
}

func (r fakeAvailability) ListByProfessor(_ context.Context, professorID int64) ([]*model.AvailabilityWindow, error) {
	return r.filter(func(w *model.AvailabilityWindow) bool { return w.ProfessorID == professorID }), nil
}

func (r fakeAvailability) ListByProfessorSubject(_ context.Context, professorID, subjectID int64) ([]*model.AvailabilityWindow, error) {
	return r.filter(func(w *model.AvailabilityWindow) bool {
		return w.ProfessorID == professorID && w.SubjectID == subjectID
	}), nil
}

func (r fakeAvailability) ListByProfessorSubjectDay(_ context.Context, professorID, subjectID int64, day model.Weekday) ([]*model.AvailabilityWindow, error) {
	return r.filter(func(w *model.AvailabilityWindow) bool {
		return w.ProfessorID == professorID && w.SubjectID == subjectID && w.Weekday == day
	}), nil
}

func (r fakeAvailability) ExistsCovering(_ context.Context, professorID, subjectID int64, day model.Weekday, start, end model.Clock) (bool, error) {
	found := r.filter(func(w *model.AvailabilityWindow) bool {
		return w.ProfessorID == professorID && w.SubjectID == subjectID && w.Weekday == day && w.Covers(start, end)
	})
	return len(found) > 0, nil
}

type fakeBookings struct {
	db *memDB
	// skipPrecheck: HasOverlap всегда false, чтобы дойти до ограничения хранилища
	skipPrecheck bool
}

func (r *fakeBookings) conflicts(skipID, professorID, studentID int64, start, end time.Time) bool {
	for _, b := range r.db.bookings {
		if b.ID == skipID {
			continue
		}
		if (b.ProfessorID == professorID || b.StudentID == studentID) && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.conflicts(0, b.ProfessorID, b.StudentID, b.StartTime, b.EndTime) {
		return repository.ErrOverlap
	}
	b.ID = r.db.id()
	b.RequestedAt = time.Now()
	cp := *b
	r.db.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	if s := r.db.subjects[b.SubjectID]; s != nil {
		cp.SubjectTitle = s.Title
	}
	if u := r.db.users[b.ProfessorID]; u != nil {
		cp.ProfessorName = u.FullName()
	}
	if u := r.db.users[b.StudentID]; u != nil {
		cp.StudentName = u.FullName()
	}
	return &cp, nil
}

func (r *fakeBookings) filter(keep func(b *model.Booking) bool) []*model.Booking {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range r.db.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b *model.Booking) int { return a.StartTime.Compare(b.StartTime) })
	return out
}

func (r *fakeBookings) List(_ context.Context) ([]*model.Booking, error) {
	return r.filter(func(*model.Booking) bool { return true }), nil
}

func (r *fakeBookings) ListByStudent(_ context.Context, studentID int64) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool { return b.StudentID == studentID }), nil
}

func (r *fakeBookings) ListByProfessor(_ context.Context, professorID int64) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool { return b.ProfessorID == professorID }), nil
}

func (r *fakeBookings) ListByUserRange(_ context.Context, userID int64, from, to time.Time) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return (b.StudentID == userID || b.ProfessorID == userID) &&
			!b.StartTime.Before(from) && !b.EndTime.After(to)
	}), nil
}

func (r *fakeBookings) HasOverlap(_ context.Context, professorID, studentID int64, start, end time.Time) (bool, error) {
	if r.skipPrecheck {
		return false, nil
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.conflicts(0, professorID, studentID, start, end), nil
}

func (r *fakeBookings) between(professorID, subjectID int64, from, to time.Time) []*model.Booking {
	return r.filter(func(b *model.Booking) bool {
		return b.ProfessorID == professorID && b.SubjectID == subjectID &&
			!b.StartTime.Before(from) && b.StartTime.Before(to)
	})
}

func (r *fakeBookings) ListByProfessorSubjectBetween(_ context.Context, professorID, subjectID int64, from, to time.Time) ([]*model.Booking, error) {
	return r.between(professorID, subjectID, from, to), nil
}

func (r *fakeBookings) CountByProfessorSubjectBetween(_ context.Context, professorID, subjectID int64, from, to time.Time) (int, error) {
	return len(r.between(professorID, subjectID, from, to)), nil
}

func (r *fakeBookings) UpdateTimes(_ context.Context, id int64, start, end time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok {
		return false, nil
	}
	if r.conflicts(id, b.ProfessorID, b.StudentID, start, end) {
		return false, repository.ErrOverlap
	}
	b.StartTime, b.EndTime = start, end
	return true, nil
}

func (r *fakeBookings) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.bookings[id]; !ok {
		return false, nil
	}
	delete(r.db.bookings, id)
	return true, nil
}

type fakeNotifications struct{ db *memDB }

func (r fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.notificationErr != nil {
		return r.db.notificationErr
	}
	n.ID = r.db.id()
	n.CreatedAt = time.Now()
	cp := *n
	r.db.notifications[n.ID] = &cp
	return nil
}

func (r fakeNotifications) GetByID(_ context.Context, id int64) (*model.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notifications[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r fakeNotifications) forUser(userID int64) []*model.Notification {
	var out []*model.Notification
	for _, n := range r.db.notifications {
		if n.RecipientID() == userID {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b *model.Notification) int { return int(b.ID - a.ID) })
	return out
}

func (r fakeNotifications) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*model.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.forUser(userID)
	if offset >= len(all) {
		return []*model.Notification{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r fakeNotifications) ListUnread(_ context.Context, userID int64) ([]*model.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Notification
	for _, n := range r.forUser(userID) {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r fakeNotifications) MarkRead(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notifications[id]
	if !ok {
		return false, nil
	}
	n.Read = true
	return true, nil
}

func (r fakeNotifications) MarkReadBulk(_ context.Context, ids []int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.bulkCalls++
	var n int64
	for _, id := range ids {
		if note, ok := r.db.notifications[id]; ok && !note.Read {
			note.Read = true
			n++
		}
	}
	return n, nil
}

// fakeTx считает транзакции; откат не моделируется
type fakeTx struct {
	calls int
}

func (t *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type pushed struct {
	userID int64
	note   *model.Notification
}

type fakePusher struct {
	mu   sync.Mutex
	got  []pushed
	fail bool
}

func (p *fakePusher) Push(_ context.Context, userID int64, n *model.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("channel closed")
	}
	p.got = append(p.got, pushed{userID: userID, note: n})
	return nil
}

func (p *fakePusher) recipients() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int64, 0, len(p.got))
	for _, g := range p.got {
		out = append(out, g.userID)
	}
	return out
}
