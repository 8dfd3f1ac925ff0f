package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	"github.com/Payphone-Digital/hospital-registry/internal/model"
	"github.com/Payphone-Digital/hospital-registry/internal/repository"
	"gorm.io/gorm"
)

var fastArgon = config.PasswordConfig{Memory: 1024, Time: 1, Threads: 1}

// memoryDB emulates the relational store: unique emails per kind, the
// pending guard on decisions and atomic audit writes.
type memoryDB struct {
	mu        sync.Mutex
	admins    map[uint]*model.Admin
	hospitals map[uint]*model.Hospital
	audits    []model.AuditLog
	nextID    uint
	failNext  error

	// skipExists makes ExistsByEmail report false, so a duplicate is only
	// caught by the unique constraint in Create.
	skipExists bool
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		admins:    make(map[uint]*model.Admin),
		hospitals: make(map[uint]*model.Hospital),
	}
}

func (db *memoryDB) id() uint {
	db.nextID++
	return db.nextID
}

func (db *memoryDB) takeFailure() error {
	err := db.failNext
	db.failNext = nil
	return err
}

func (db *memoryDB) appendAudit(a *model.AuditLog) {
	a.ID = uint(len(db.audits) + 1)
	a.CreatedAt = time.Now()
	db.audits = append(db.audits, *a)
}

type memoryAdmins struct{ db *memoryDB }
type memoryHospitals struct{ db *memoryDB }
type memoryAudits struct{ db *memoryDB }

func (s memoryAdmins) FindByEmail(_ context.Context, email string) (*model.Admin, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.takeFailure(); err != nil {
		return nil, err
	}
	for _, a := range s.db.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s memoryAdmins) FindByID(_ context.Context, id uint) (*model.Admin, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (s memoryAdmins) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.skipExists {
		return false, nil
	}
	for _, a := range s.db.admins {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s memoryAdmins) Create(_ context.Context, admin *model.Admin, audit *model.AuditLog) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.admins {
		if a.Email == admin.Email {
			return repository.ErrDuplicateEmail
		}
	}
	admin.ID = s.db.id()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	cp := *admin
	s.db.admins[admin.ID] = &cp
	if audit != nil {
		audit.EntityID = admin.ID
		if audit.UserID == 0 {
			audit.UserID = admin.ID
		}
		s.db.appendAudit(audit)
	}
	return nil
}

func (s memoryAdmins) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.admins[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.LastLogin = &at
	return nil
}

func (s memoryAdmins) UpdatePasswordHash(_ context.Context, id uint, hash string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.admins[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (s memoryAdmins) Count(context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.admins)), nil
}

func (s memoryHospitals) FindByEmail(_ context.Context, email string) (*model.Hospital, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.takeFailure(); err != nil {
		return nil, err
	}
	for _, h := range s.db.hospitals {
		if h.Email == email {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s memoryHospitals) FindByID(_ context.Context, id uint) (*model.Hospital, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	h, ok := s.db.hospitals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *h
	return &cp, nil
}

func (s memoryHospitals) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.skipExists {
		return false, nil
	}
	for _, h := range s.db.hospitals {
		if h.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s memoryHospitals) Create(_ context.Context, hospital *model.Hospital, audit *model.AuditLog) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, h := range s.db.hospitals {
		if h.Email == hospital.Email {
			return repository.ErrDuplicateEmail
		}
	}
	hospital.ID = s.db.id()
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = hospital.CreatedAt
	cp := *hospital
	s.db.hospitals[hospital.ID] = &cp
	if audit != nil {
		audit.EntityID = hospital.ID
		if audit.UserID == 0 {
			audit.UserID = hospital.ID
		}
		s.db.appendAudit(audit)
	}
	return nil
}

func (s memoryHospitals) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	h, ok := s.db.hospitals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.LastLogin = &at
	return nil
}

func (s memoryHospitals) UpdatePasswordHash(_ context.Context, id uint, hash string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	h, ok := s.db.hospitals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.PasswordHash = hash
	return nil
}

func (s memoryHospitals) ListPending(context.Context) ([]model.Hospital, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Hospital
	for _, h := range s.db.hospitals {
		if h.Status == model.HospitalStatusPending && h.IsActive {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (s memoryHospitals) List(_ context.Context, status string, limit, offset int) ([]model.Hospital, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var matched []model.Hospital
	for id := uint(1); id <= s.db.nextID; id++ {
		h, ok := s.db.hospitals[id]
		if ok && (status == "" || string(h.Status) == status) {
			matched = append(matched, *h)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s memoryHospitals) CountByStatus(context.Context) (map[string]int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	counts := map[string]int64{"pending": 0, "approved": 0, "rejected": 0}
	for _, h := range s.db.hospitals {
		counts[string(h.Status)]++
	}
	return counts, nil
}

func (s memoryHospitals) decide(id, adminID uint, status model.HospitalStatus, reason *string, at time.Time, audit *model.AuditLog) (*model.Hospital, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.takeFailure(); err != nil {
		return nil, err
	}
	h, ok := s.db.hospitals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if h.Status != model.HospitalStatusPending {
		return nil, repository.ErrAlreadyProcessed
	}
	h.Status = status
	h.ApprovedBy = &adminID
	h.ApprovedAt = &at
	h.RejectionReason = reason
	if audit != nil {
		audit.EntityID = id
		s.db.appendAudit(audit)
	}
	cp := *h
	return &cp, nil
}

func (s memoryHospitals) Approve(_ context.Context, id, adminID uint, at time.Time, audit *model.AuditLog) (*model.Hospital, error) {
	return s.decide(id, adminID, model.HospitalStatusApproved, nil, at, audit)
}

func (s memoryHospitals) Reject(_ context.Context, id, adminID uint, reason *string, at time.Time, audit *model.AuditLog) (*model.Hospital, error) {
	return s.decide(id, adminID, model.HospitalStatusRejected, reason, at, audit)
}

func (s memoryAudits) ListByEntity(_ context.Context, entityType string, entityID uint) ([]model.AuditLog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.AuditLog
	for _, a := range s.db.audits {
		if a.EntityType == entityType && a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}

// recordingNotifier captures notifications synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) add(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func (n *recordingNotifier) AdminWelcome(_ context.Context, a dto.AdminResponse) {
	n.add("admin_welcome:" + a.Email)
}

func (n *recordingNotifier) HospitalRegistered(_ context.Context, h dto.HospitalResponse) {
	n.add("hospital_registered:" + h.Email)
}

func (n *recordingNotifier) HospitalApproved(_ context.Context, h dto.HospitalResponse) {
	n.add("hospital_approved:" + h.Email)
}

func (n *recordingNotifier) HospitalRejected(_ context.Context, h dto.HospitalResponse, reason string) {
	n.add("hospital_rejected:" + h.Email + ":" + reason)
}

// memoryNotifications records the email_notifications rows.
type memoryNotifications struct {
	mu      sync.Mutex
	rows    map[uint]*model.EmailNotification
	markErr error
}

func newMemoryNotifications() *memoryNotifications {
	return &memoryNotifications{rows: make(map[uint]*model.EmailNotification)}
}

func (s *memoryNotifications) Create(_ context.Context, n *model.EmailNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uint(len(s.rows) + 1)
	cp := *n
	s.rows[n.ID] = &cp
	return nil
}

func (s *memoryNotifications) MarkSent(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	s.rows[id].Status = model.NotificationStatusSent
	s.rows[id].SentAt = &at
	return nil
}

func (s *memoryNotifications) MarkFailed(_ context.Context, id uint, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	s.rows[id].Status = model.NotificationStatusFailed
	s.rows[id].ErrorMessage = &reason
	return nil
}

func (s *memoryNotifications) All() []model.EmailNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EmailNotification, 0, len(s.rows))
	for id := uint(1); id <= uint(len(s.rows)); id++ {
		out = append(out, *s.rows[id])
	}
	return out
}

type stubSender struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (s *stubSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+"|"+subject+"|"+strings.TrimSpace(body))
	return s.err
}

type fixture struct {
	db          *memoryDB
	notifier    *recordingNotifier
	credentials *CredentialService
	approvals   *ApprovalService
}

func newFixture() *fixture {
	db := newMemoryDB()
	notifier := &recordingNotifier{}
	hasher := NewArgon2idHasher(fastArgon)
	return &fixture{
		db:          db,
		notifier:    notifier,
		credentials: NewCredentialService(memoryAdmins{db}, memoryHospitals{db}, hasher, notifier, time.Second),
		approvals:   NewApprovalService(memoryHospitals{db}, memoryAudits{db}, notifier, nil, time.Second),
	}
}
