package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/events"
	"github.com/spec-kit/netdesk/internal/repository"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// fakeClock returns a controllable instant.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// snapshotter lets the fake tx manager roll fakes back on error.
type snapshotter interface {
	snapshot() func()
}

// fakeTxManager mimics transactional semantics by snapshotting the
// in-memory repositories before the function runs and restoring them
// if it fails.
type fakeTxManager struct {
	repos []snapshotter
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(m.repos))
	for _, r := range m.repos {
		restores = append(restores, r.snapshot())
	}
	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int64
	tickets map[int64]domain.Ticket
	clock   *fakeClock

	updateErr error
}

func newFakeTicketRepo(clock *fakeClock) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]domain.Ticket{}, clock: clock}
}

func (r *fakeTicketRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[int64]domain.Ticket, len(r.tickets))
	for id, t := range r.tickets {
		saved[id] = t
	}
	seq := r.seq
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.tickets = saved
		r.seq = seq
	}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = r.seq
	ticket.CreatedAt = r.clock.Now()
	ticket.UpdatedAt = r.clock.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Ticket, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.CreatedBy != nil && ticket.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.AssignedTo != nil && (ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.CategoryID != nil && ticket.IssueCategoryID != *filter.CategoryID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if ticket.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, ticket)
	}
	return out, nil
}

type fakeUserRepo struct {
	seq   int64
	users map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]domain.User{}}
}

func (r *fakeUserRepo) add(user domain.User) *domain.User {
	r.seq++
	user.ID = r.seq
	r.users[user.ID] = user
	return &user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, role *domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if role != nil && user.Role != *role {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

type fakeSLARepo struct {
	seq  int64
	slas map[int64]domain.SLA
}

func newFakeSLARepo() *fakeSLARepo {
	return &fakeSLARepo{slas: map[int64]domain.SLA{}}
}

func (r *fakeSLARepo) add(sla domain.SLA) *domain.SLA {
	r.seq++
	sla.ID = r.seq
	r.slas[sla.ID] = sla
	return &sla
}

func (r *fakeSLARepo) Create(_ context.Context, sla *domain.SLA) error {
	r.seq++
	sla.ID = r.seq
	r.slas[sla.ID] = *sla
	return nil
}

func (r *fakeSLARepo) Update(_ context.Context, sla *domain.SLA) error {
	if _, ok := r.slas[sla.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.slas[sla.ID] = *sla
	return nil
}

func (r *fakeSLARepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.slas[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.slas, id)
	return nil
}

func (r *fakeSLARepo) GetByID(_ context.Context, id int64) (*domain.SLA, error) {
	sla, ok := r.slas[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := sla
	return &copied, nil
}

func (r *fakeSLARepo) ListAll(_ context.Context) ([]domain.SLA, error) {
	var out []domain.SLA
	for _, sla := range r.slas {
		out = append(out, sla)
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	seq     int64
	entries []domain.Assignment

	appendErr error
}

func (r *fakeAssignmentRepo) snapshot() func() {
	saved := make([]domain.Assignment, len(r.entries))
	copy(saved, r.entries)
	seq := r.seq
	return func() {
		r.entries = saved
		r.seq = seq
	}
}

func (r *fakeAssignmentRepo) Append(_ context.Context, assignment *domain.Assignment) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.seq++
	assignment.ID = r.seq
	r.entries = append(r.entries, *assignment)
	return nil
}

func (r *fakeAssignmentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	seq        int64
	categories map[int64]domain.IssueCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[int64]domain.IssueCategory{}}
}

func (r *fakeCategoryRepo) add(name string) *domain.IssueCategory {
	r.seq++
	category := domain.IssueCategory{ID: r.seq, Name: name}
	r.categories[category.ID] = category
	return &category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.IssueCategory) error {
	r.seq++
	category.ID = r.seq
	r.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.IssueCategory) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.IssueCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := category
	return &copied, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.IssueCategory, error) {
	for _, category := range r.categories {
		if category.Name == name {
			copied := category
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) ListAll(_ context.Context) ([]domain.IssueCategory, error) {
	var out []domain.IssueCategory
	for _, category := range r.categories {
		out = append(out, category)
	}
	return out, nil
}

type fakeAddressRepo struct {
	seq       int64
	addresses map[int64]domain.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: map[int64]domain.Address{}}
}

func (r *fakeAddressRepo) add(address domain.Address) *domain.Address {
	r.seq++
	address.ID = r.seq
	r.addresses[address.ID] = address
	return &address
}

func (r *fakeAddressRepo) Create(_ context.Context, address *domain.Address) error {
	r.seq++
	address.ID = r.seq
	address.CreatedAt = time.Now()
	r.addresses[address.ID] = *address
	return nil
}

func (r *fakeAddressRepo) Update(_ context.Context, address *domain.Address) error {
	if _, ok := r.addresses[address.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.addresses[address.ID] = *address
	return nil
}

func (r *fakeAddressRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.addresses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.addresses, id)
	return nil
}

func (r *fakeAddressRepo) GetByID(_ context.Context, id int64) (*domain.Address, error) {
	address, ok := r.addresses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := address
	return &copied, nil
}

func (r *fakeAddressRepo) ListByUser(_ context.Context, userID int64) ([]domain.Address, error) {
	var out []domain.Address
	for _, address := range r.addresses {
		if address.UserID == userID {
			out = append(out, address)
		}
	}
	return out, nil
}

type fakeFeedbackRepo struct {
	seq      int64
	byTicket map[int64]domain.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{byTicket: map[int64]domain.Feedback{}}
}

func (r *fakeFeedbackRepo) snapshot() func() {
	saved := make(map[int64]domain.Feedback, len(r.byTicket))
	for id, f := range r.byTicket {
		saved[id] = f
	}
	seq := r.seq
	return func() {
		r.byTicket = saved
		r.seq = seq
	}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	r.seq++
	feedback.ID = r.seq
	r.byTicket[feedback.TicketID] = *feedback
	return nil
}

func (r *fakeFeedbackRepo) GetByTicket(_ context.Context, ticketID int64) (*domain.Feedback, error) {
	feedback, ok := r.byTicket[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := feedback
	return &copied, nil
}

type fakeRefreshTokenRepo struct {
	seq     int64
	byToken map[string]domain.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{byToken: map[string]domain.RefreshToken{}}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.seq++
	token.ID = r.seq
	token.CreatedAt = time.Now()
	r.byToken[token.Token] = *token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	record, ok := r.byToken[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := record
	return &copied, nil
}

func (r *fakeRefreshTokenRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.byToken, token)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	for token, record := range r.byToken {
		if record.UserID == userID {
			delete(r.byToken, token)
		}
	}
	return nil
}

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) last(t *testing.T) events.Event {
	t.Helper()
	if len(d.published) == 0 {
		t.Fatalf("no events published")
	}
	return d.published[len(d.published)-1]
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, domainErr.Code, domainErr.Message)
	}
}
