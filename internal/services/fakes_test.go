package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"clubmanagement/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func regKey(eventID, studentID string) string { return eventID + ":" + studentID }

type fakeRegistrationRepo struct {
	mu     sync.Mutex
	regs   map[string]*domain.Registration
	nextID int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: make(map[string]*domain.Registration)}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := regKey(reg.EventID, reg.StudentID)
	if _, ok := f.regs[key]; ok {
		return domain.ErrAlreadyRegistered
	}
	f.nextID++
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	copied := *reg
	f.regs[key] = &copied
	return nil
}

func (f *fakeRegistrationRepo) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[regKey(eventID, studentID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *reg
	return &copied, nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var regs []*domain.Registration
	for _, reg := range f.regs {
		if reg.EventID == eventID {
			copied := *reg
			regs = append(regs, &copied)
		}
	}
	return regs, nil
}

func (f *fakeRegistrationRepo) SetAttended(ctx context.Context, eventID, studentID string, attended bool, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[regKey(eventID, studentID)]
	if !ok {
		return domain.ErrNotFound
	}
	reg.Attended = attended
	reg.UpdatedAt = updatedAt
	return nil
}

func (f *fakeRegistrationRepo) attended(eventID, studentID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[regKey(eventID, studentID)]
	return ok && reg.Attended
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	regs   *fakeRegistrationRepo
}

func newFakeEventRepo(regs *fakeRegistrationRepo) *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event), regs: regs}
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

// FinalizeAttendance mirrors the conditional-update semantics of the postgres
// repository: the terminal-state check and the mark application happen under
// one lock, and a completed event is never mutated again.
func (f *fakeEventRepo) FinalizeAttendance(ctx context.Context, eventID string, marks []domain.AttendanceMark, submittedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if e.AttendanceCompleted {
		return domain.ErrAlreadyFinalized
	}
	for _, m := range marks {
		f.regs.mu.Lock()
		if reg, ok := f.regs.regs[regKey(eventID, m.StudentID)]; ok {
			reg.Attended = m.Present
			reg.UpdatedAt = submittedAt
		}
		f.regs.mu.Unlock()
	}
	e.AttendanceCompleted = true
	e.AttendanceSubmittedAt = &submittedAt
	return nil
}

type fakeDraftRepo struct {
	mu     sync.Mutex
	drafts map[string]*domain.AttendanceDraft
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]*domain.AttendanceDraft)}
}

func (f *fakeDraftRepo) Upsert(ctx context.Context, draft *domain.AttendanceDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *draft
	copied.Marks = append([]domain.AttendanceMark(nil), draft.Marks...)
	f.drafts[regKey(draft.EventID, draft.CoordinatorID)] = &copied
	return nil
}

func (f *fakeDraftRepo) Get(ctx context.Context, eventID, coordinatorID string) (*domain.AttendanceDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[regKey(eventID, coordinatorID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *d
	copied.Marks = append([]domain.AttendanceMark(nil), d.Marks...)
	return &copied, nil
}

func (f *fakeDraftRepo) Delete(ctx context.Context, eventID, coordinatorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, regKey(eventID, coordinatorID))
	return nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	var users []*domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

type fakeClubRepo struct {
	clubs map[string]*domain.Club
}

func (f *fakeClubRepo) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	c, ok := f.clubs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

type fakeCertificateRepo struct {
	mu        sync.Mutex
	certs     map[string]*domain.Certificate
	createErr error
	nextID    int
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{certs: make(map[string]*domain.Certificate)}
}

func (f *fakeCertificateRepo) Create(ctx context.Context, cert *domain.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := regKey(cert.EventID, cert.StudentID)
	if _, ok := f.certs[key]; ok {
		return domain.ErrCertificateExists
	}
	f.nextID++
	cert.ID = fmt.Sprintf("cert-%d", f.nextID)
	copied := *cert
	f.certs[key] = &copied
	return nil
}

func (f *fakeCertificateRepo) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cert, ok := f.certs[regKey(eventID, studentID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *cert
	return &copied, nil
}

func (f *fakeCertificateRepo) SetEmailSent(ctx context.Context, id string, sent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cert := range f.certs {
		if cert.ID == id {
			cert.EmailSent = sent
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCertificateRepo) ListByStudentID(ctx context.Context, studentID string) ([]*domain.StudentCertificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var certs []*domain.StudentCertificate
	for _, cert := range f.certs {
		if cert.StudentID == studentID {
			certs = append(certs, &domain.StudentCertificate{Certificate: *cert})
		}
	}
	return certs, nil
}

func (f *fakeCertificateRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.certs)
}

type fakeEmailService struct {
	mu   sync.Mutex
	fail bool
	sent []*domain.CertificateEmailData
}

func (f *fakeEmailService) SendCertificateIssued(ctx context.Context, data *domain.CertificateEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("smtp: connection refused")
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakeIssuer lets attendance tests inject issuance outcomes directly.
type fakeIssuer struct {
	mu      sync.Mutex
	created map[string]bool
	err     error
	calls   []string
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{created: make(map[string]bool)}
}

func (f *fakeIssuer) IssueIfAbsent(ctx context.Context, event *domain.Event, student *domain.User, clubName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, student.ID)
	if f.err != nil {
		return false, f.err
	}
	key := regKey(event.ID, student.ID)
	if f.created[key] {
		return false, nil
	}
	f.created[key] = true
	return true, nil
}
