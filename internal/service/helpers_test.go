package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type recordedEvent struct {
	event   string
	userID  uint
	message dto.RealtimeMessage
}

type stubBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *stubBroadcaster) BroadcastAll(event string, message dto.RealtimeMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{event: event, message: message})
}

func (b *stubBroadcaster) BroadcastUser(userID uint, event string, message dto.RealtimeMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{event: event, userID: userID, message: message})
}

func (b *stubBroadcaster) recorded() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedEvent(nil), b.events...)
}

type sentMail struct {
	to      string
	subject string
}

type stubMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return m.err
}

func (m *stubMailer) deliveries() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type stubActivity struct {
	mu      sync.Mutex
	actions []string
	userIDs []uint
}

func (a *stubActivity) Record(_ context.Context, userID uint, action string, _ map[string]interface{}, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	a.userIDs = append(a.userIDs, userID)
}

func (a *stubActivity) recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.actions...)
}

func (a *stubActivity) recordedUsers() []uint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint(nil), a.userIDs...)
}

// fakeUserRepo is a map-backed UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeOpportunityRepo is an in-memory OpportunityRepository.
type fakeOpportunityRepo struct {
	mu            sync.Mutex
	nextID        uint
	nextAppID     uint
	opportunities map[uint]models.Opportunity
	applications  []models.Application
	failAdd       error
}

func newFakeOpportunityRepo() *fakeOpportunityRepo {
	return &fakeOpportunityRepo{opportunities: make(map[uint]models.Opportunity)}
}

func (r *fakeOpportunityRepo) Create(_ context.Context, opportunity *models.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	opportunity.ID = r.nextID
	r.opportunities[opportunity.ID] = *opportunity
	return nil
}

func (r *fakeOpportunityRepo) CreateBatch(ctx context.Context, opportunities []models.Opportunity) (int64, error) {
	for i := range opportunities {
		if err := r.Create(ctx, &opportunities[i]); err != nil {
			return int64(i), err
		}
	}
	return int64(len(opportunities)), nil
}

func (r *fakeOpportunityRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.opportunities)), nil
}

func (r *fakeOpportunityRepo) List(_ context.Context) ([]models.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]models.Opportunity, 0, len(r.opportunities))
	for _, opportunity := range r.opportunities {
		opportunity.Applicants = r.applicationsForLocked(opportunity.ID)
		list = append(list, opportunity)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].PostedAt.After(list[j].PostedAt)
	})
	return list, nil
}

func (r *fakeOpportunityRepo) applicationsForLocked(opportunityID uint) []models.Application {
	var apps []models.Application
	for _, app := range r.applications {
		if app.OpportunityID == opportunityID {
			apps = append(apps, app)
		}
	}
	return apps
}

func (r *fakeOpportunityRepo) GetByID(_ context.Context, id uint) (models.Opportunity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	opportunity, ok := r.opportunities[id]
	if !ok {
		return models.Opportunity{}, gorm.ErrRecordNotFound
	}
	opportunity.Applicants = r.applicationsForLocked(id)
	return opportunity, nil
}

func (r *fakeOpportunityRepo) UpdateStatus(_ context.Context, opportunity *models.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.opportunities[opportunity.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = opportunity.Status
	stored.InterviewDate = opportunity.InterviewDate
	r.opportunities[opportunity.ID] = stored
	return nil
}

func (r *fakeOpportunityRepo) AddApplicant(_ context.Context, opportunityID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return false, r.failAdd
	}
	for _, app := range r.applications {
		if app.OpportunityID == opportunityID && app.UserID == userID {
			return false, nil
		}
	}
	r.nextAppID++
	r.applications = append(r.applications, models.Application{
		ID:            r.nextAppID,
		OpportunityID: opportunityID,
		UserID:        userID,
		DisplayStatus: models.ApplicationApplied,
	})
	return true, nil
}

func (r *fakeOpportunityRepo) GetApplication(_ context.Context, opportunityID, userID uint) (models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.applications {
		if app.OpportunityID == opportunityID && app.UserID == userID {
			return app, nil
		}
	}
	return models.Application{}, gorm.ErrRecordNotFound
}

func (r *fakeOpportunityRepo) UpdateApplication(_ context.Context, application *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, app := range r.applications {
		if app.ID == application.ID {
			r.applications[i] = *application
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOpportunityRepo) ListApplicationsByUser(_ context.Context, userID uint) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var apps []models.Application
	for _, app := range r.applications {
		if app.UserID == userID {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

var errRepoDown = errors.New("repository unavailable")
