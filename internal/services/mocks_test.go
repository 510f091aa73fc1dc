package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/courseloom/backend/internal/events"
	"github.com/courseloom/backend/internal/models"
)

// The fakes below enforce the same uniqueness rules as the real schema so
// race behavior (duplicate inserts from concurrent callers) can be tested
// without a database.

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  int64
	courses map[int64]*models.Course
}

func newFakeCourseRepo(courses ...*models.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: make(map[int64]*models.Course), nextID: 1}
	for _, c := range courses {
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCourseRepo) ListPublished(_ context.Context, page, count int) ([]models.CourseListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []models.CourseListItem{}
	ids := make([]int64, 0, len(r.courses))
	for id := range r.courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := r.courses[id]
		if c.Published {
			items = append(items, models.CourseListItem{
				ID: c.ID, Slug: c.Slug, Title: c.Title, PriceCents: c.PriceCents, Currency: c.Currency,
			})
		}
	}
	start := (page - 1) * count
	if start >= len(items) {
		return []models.CourseListItem{}, nil
	}
	end := start + count
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

func (r *fakeCourseRepo) ListByInstructor(_ context.Context, instructorID int64) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	courses := []models.Course{}
	for _, c := range r.courses {
		if c.InstructorID == instructorID {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

func (r *fakeCourseRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.Slug == course.Slug {
			return models.ErrDuplicateEntry
		}
	}
	course.ID = r.nextID
	r.nextID++
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) SetPublished(_ context.Context, id int64, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		c.Published = published
	}
	return nil
}

type fakeLessonRepo struct {
	mu      sync.Mutex
	nextID  int64
	lessons map[int64]*models.Lesson

	// set by tests that need completion state in listings
	completions *fakeCompletionRepo
}

func newFakeLessonRepo(lessons ...*models.Lesson) *fakeLessonRepo {
	r := &fakeLessonRepo{lessons: make(map[int64]*models.Lesson), nextID: 1}
	for _, l := range lessons {
		if l.ID >= r.nextID {
			r.nextID = l.ID + 1
		}
		r.lessons[l.ID] = l
	}
	return r
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id int64) (*models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLessonRepo) CountPublishedByCourse(_ context.Context, courseID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, l := range r.lessons {
		if l.CourseID == courseID && l.Published {
			count++
		}
	}
	return count, nil
}

func (r *fakeLessonRepo) ListPublishedWithCompletion(_ context.Context, courseID, studentID int64) ([]models.LessonListItem, error) {
	r.mu.Lock()
	items := []models.LessonListItem{}
	for _, l := range r.lessons {
		if l.CourseID == courseID && l.Published {
			items = append(items, models.LessonListItem{
				ID: l.ID, Slug: l.Slug, Title: l.Title, Position: l.Position,
			})
		}
	}
	r.mu.Unlock()
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	if r.completions != nil && studentID != 0 {
		r.completions.mu.Lock()
		for i := range items {
			_, ok := r.completions.completions[completionKey(studentID, items[i].ID)]
			items[i].Completed = ok
		}
		r.completions.mu.Unlock()
	}
	return items, nil
}

func (r *fakeLessonRepo) ListByCourse(_ context.Context, courseID int64) ([]models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lessons := []models.Lesson{}
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, *l)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Position < lessons[j].Position })
	return lessons, nil
}

func (r *fakeLessonRepo) Create(_ context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lesson.ID = r.nextID
	r.nextID++
	copied := *lesson
	r.lessons[lesson.ID] = &copied
	return nil
}

func (r *fakeLessonRepo) Update(_ context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *lesson
	r.lessons[lesson.ID] = &copied
	return nil
}

func (r *fakeLessonRepo) SetPublished(_ context.Context, id int64, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lessons[id]; ok {
		l.Published = published
	}
	return nil
}

type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	nextID      int64
	enrollments map[string]*models.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: make(map[string]*models.Enrollment), nextID: 1}
}

func enrollmentKey(studentID, courseID int64) string {
	return fmt.Sprintf("%d:%d", studentID, courseID)
}

func (r *fakeEnrollmentRepo) GetByStudentAndCourse(_ context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[enrollmentKey(studentID, courseID)]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEnrollmentRepo) Exists(_ context.Context, studentID, courseID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.enrollments[enrollmentKey(studentID, courseID)]
	return ok, nil
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := enrollmentKey(enrollment.StudentID, enrollment.CourseID)
	if _, ok := r.enrollments[key]; ok {
		return models.ErrDuplicateEntry
	}
	enrollment.ID = r.nextID
	r.nextID++
	copied := *enrollment
	r.enrollments[key] = &copied
	return nil
}

func (r *fakeEnrollmentRepo) UpdateProgress(_ context.Context, studentID, courseID int64, progress int, status models.EnrollmentStatus, completedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[enrollmentKey(studentID, courseID)]
	if !ok {
		return fmt.Errorf("enrollment not found")
	}
	e.ProgressPercentage = progress
	e.Status = status
	e.CompletedAt = completedAt
	return nil
}

func (r *fakeEnrollmentRepo) ListByStudent(_ context.Context, studentID int64) ([]models.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	enrollments := []models.Enrollment{}
	for _, e := range r.enrollments {
		if e.StudentID == studentID {
			enrollments = append(enrollments, *e)
		}
	}
	return enrollments, nil
}

func (r *fakeEnrollmentRepo) Delete(_ context.Context, studentID, courseID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := enrollmentKey(studentID, courseID)
	if _, ok := r.enrollments[key]; !ok {
		return models.ErrEnrollmentNotFound
	}
	delete(r.enrollments, key)
	return nil
}

// fakeCompletionRepo checks the published flag through the lesson repo the
// same way the SQL join does.
type fakeCompletionRepo struct {
	mu          sync.Mutex
	nextID      int64
	completions map[string]*models.LessonCompletion
	lessons     *fakeLessonRepo
}

func newFakeCompletionRepo(lessons *fakeLessonRepo) *fakeCompletionRepo {
	return &fakeCompletionRepo{
		completions: make(map[string]*models.LessonCompletion),
		lessons:     lessons,
		nextID:      1,
	}
}

func completionKey(studentID, lessonID int64) string {
	return fmt.Sprintf("%d:%d", studentID, lessonID)
}

func (r *fakeCompletionRepo) Get(_ context.Context, studentID, lessonID int64) (*models.LessonCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.completions[completionKey(studentID, lessonID)]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCompletionRepo) Create(_ context.Context, completion *models.LessonCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := completionKey(completion.StudentID, completion.LessonID)
	if _, ok := r.completions[key]; ok {
		return models.ErrDuplicateEntry
	}
	completion.ID = r.nextID
	r.nextID++
	copied := *completion
	r.completions[key] = &copied
	return nil
}

func (r *fakeCompletionRepo) CountCompletedPublished(_ context.Context, studentID, courseID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lessons.mu.Lock()
	defer r.lessons.mu.Unlock()
	count := 0
	for _, c := range r.completions {
		if c.StudentID != studentID {
			continue
		}
		if l, ok := r.lessons.lessons[c.LessonID]; ok && l.CourseID == courseID && l.Published {
			count++
		}
	}
	return count, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	nextID   int64
	payments map[int64]*models.Payment
}

func newFakePaymentRepo(payments ...*models.Payment) *fakePaymentRepo {
	r := &fakePaymentRepo{payments: make(map[int64]*models.Payment), nextID: 1}
	for _, p := range payments {
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
		r.payments[p.ID] = p
	}
	return r
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) GetByExternalRef(_ context.Context, externalRef string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ExternalRef == externalRef {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) HasCompleted(_ context.Context, studentID, courseID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.StudentID == studentID && p.CourseID == courseID && p.Status == models.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment.ID = r.nextID
	r.nextID++
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, id int64, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		p.Status = status
	}
	return nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	nextID      int64
	assignments map[int64]*models.Assignment
	submissions map[string]*models.Submission
}

func newFakeAssignmentRepo(assignments ...*models.Assignment) *fakeAssignmentRepo {
	r := &fakeAssignmentRepo{
		assignments: make(map[int64]*models.Assignment),
		submissions: make(map[string]*models.Submission),
		nextID:      1,
	}
	for _, a := range assignments {
		if a.ID >= r.nextID {
			r.nextID = a.ID + 1
		}
		r.assignments[a.ID] = a
	}
	return r
}

func submissionKey(assignmentID, studentID int64) string {
	return fmt.Sprintf("%d:%d", assignmentID, studentID)
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id int64) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment.ID = r.nextID
	r.nextID++
	copied := *assignment
	r.assignments[assignment.ID] = &copied
	return nil
}

func (r *fakeAssignmentRepo) GetSubmission(_ context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[submissionKey(assignmentID, studentID)]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeAssignmentRepo) CreateSubmission(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := submissionKey(submission.AssignmentID, submission.StudentID)
	if _, ok := r.submissions[key]; ok {
		return models.ErrDuplicateEntry
	}
	submission.ID = r.nextID
	r.nextID++
	copied := *submission
	r.submissions[key] = &copied
	return nil
}

func (r *fakeAssignmentRepo) UpdateSubmission(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := submissionKey(submission.AssignmentID, submission.StudentID)
	existing, ok := r.submissions[key]
	if !ok {
		return fmt.Errorf("submission not found")
	}
	existing.Body = submission.Body
	existing.SubmittedAt = submission.SubmittedAt
	return nil
}

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) byName(name string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	matched := []events.Event{}
	for _, e := range p.events {
		if e.Name == name {
			matched = append(matched, e)
		}
	}
	return matched
}
