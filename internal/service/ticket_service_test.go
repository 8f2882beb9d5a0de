package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/events"
)

type ticketFixture struct {
	clock       *fakeClock
	tickets     *fakeTicketRepo
	users       *fakeUserRepo
	slas        *fakeSLARepo
	assignments *fakeAssignmentRepo
	categories  *fakeCategoryRepo
	addresses   *fakeAddressRepo
	dispatcher  *captureDispatcher
	svc         *TicketService

	customer *domain.User
	agent    *domain.User
	engineer *domain.User
	admin    *domain.User
	sla      *domain.SLA
	category *domain.IssueCategory
	address  *domain.Address
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	f := &ticketFixture{
		clock:       clock,
		tickets:     newFakeTicketRepo(clock),
		users:       newFakeUserRepo(),
		slas:        newFakeSLARepo(),
		assignments: &fakeAssignmentRepo{},
		categories:  newFakeCategoryRepo(),
		addresses:   newFakeAddressRepo(),
		dispatcher:  &captureDispatcher{},
	}
	f.customer = f.users.add(domain.User{Name: "Cora", Email: "cora@example.com", Role: domain.RoleCustomer})
	f.agent = f.users.add(domain.User{Name: "Amin", Email: "amin@example.com", Role: domain.RoleAgent})
	f.engineer = f.users.add(domain.User{Name: "Elif", Email: "elif@example.com", Role: domain.RoleEngineer})
	f.admin = f.users.add(domain.User{Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin})
	f.sla = f.slas.add(domain.SLA{Severity: domain.SeverityHigh, Priority: domain.PriorityHigh, TimeLimitHr: 24})
	f.category = f.categories.add("connectivity")
	f.address = f.addresses.add(domain.Address{UserID: f.customer.ID, Street: "1 Main St", City: "Metropolis", State: "NY", PostalCode: "10001", Country: "US"})

	tx := &fakeTxManager{repos: []snapshotter{f.tickets, f.assignments}}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:     f.tickets,
		UserRepo:       f.users,
		SLARepo:        f.slas,
		AssignmentRepo: f.assignments,
		CategoryRepo:   f.categories,
		AddressRepo:    f.addresses,
		TxManager:      tx,
		Dispatcher:     f.dispatcher,
		Clock:          clock,
	})
	return f
}

func (f *ticketFixture) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), f.customer, CreateTicketInput{
		IssueDescription: "no uplink on floor 3",
		IssueCategoryID:  f.category.ID,
		AddressID:        f.address.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return ticket
}

func (f *ticketFixture) classifyTicket(t *testing.T, id int64) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Classify(context.Background(), f.agent, id, domain.SeverityHigh, domain.PriorityHigh, f.sla.ID)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return ticket
}

func (f *ticketFixture) assignTicket(t *testing.T, id int64) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Assign(context.Background(), f.agent, id, f.engineer.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	return ticket
}

func TestCreateTicketStartsNewAndUnclassified(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	if ticket.Status != domain.TicketStatusNew {
		t.Fatalf("expected status new, got %s", ticket.Status)
	}
	if ticket.Classified() {
		t.Fatalf("new ticket must not be classified")
	}
	if ticket.AssignedTo != nil || ticket.DueDate != nil {
		t.Fatalf("new ticket must have no assignee or due date")
	}
	if f.svc.Band(ticket) != SLABandNone {
		t.Fatalf("unclassified ticket must have band none")
	}
	if f.dispatcher.last(t).Type != events.EventTicketCreated {
		t.Fatalf("expected ticket_created event")
	}
}

func TestCreateTicketRejectsNonCustomers(t *testing.T) {
	f := newTicketFixture(t)
	_, err := f.svc.Create(context.Background(), f.agent, CreateTicketInput{
		IssueDescription: "x", IssueCategoryID: f.category.ID, AddressID: f.address.ID,
	})
	assertCode(t, err, "FORBIDDEN")
}

func TestCreateTicketValidatesReferences(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Create(context.Background(), f.customer, CreateTicketInput{
		IssueDescription: "x", IssueCategoryID: 999, AddressID: f.address.ID,
	})
	assertCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.Create(context.Background(), f.customer, CreateTicketInput{
		IssueDescription: "x", IssueCategoryID: f.category.ID, AddressID: 999,
	})
	assertCode(t, err, "VALIDATION_FAILED")

	other := f.addresses.add(domain.Address{UserID: f.admin.ID, Street: "9 Side St", City: "Gotham", State: "NJ", PostalCode: "07001", Country: "US"})
	_, err = f.svc.Create(context.Background(), f.customer, CreateTicketInput{
		IssueDescription: "x", IssueCategoryID: f.category.ID, AddressID: other.ID,
	})
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestClassifySetsAllFieldsTogether(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	classified := f.classifyTicket(t, ticket.ID)

	if !classified.Classified() {
		t.Fatalf("expected ticket to be classified")
	}
	wantDue := f.clock.Now().Add(24 * time.Hour)
	if classified.DueDate == nil || !classified.DueDate.Equal(wantDue) {
		t.Fatalf("expected due date %v, got %v", wantDue, classified.DueDate)
	}
	if f.svc.Band(classified) != SLABandGreen {
		t.Fatalf("freshly classified ticket should be green")
	}
	if f.dispatcher.last(t).Type != events.EventTicketClassified {
		t.Fatalf("expected ticket_classified event")
	}
}

func TestClassifyUnknownSLALeavesTicketUntouched(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Classify(context.Background(), f.agent, ticket.ID, domain.SeverityLow, domain.PriorityLow, 999)
	assertCode(t, err, "NOT_FOUND")

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Classified() || stored.DueDate != nil {
		t.Fatalf("failed classification must not leave partial fields")
	}
}

func TestClassifyRejectsCustomersAndEngineers(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	for _, caller := range []*domain.User{f.customer, f.engineer} {
		_, err := f.svc.Classify(context.Background(), caller, ticket.ID, domain.SeverityLow, domain.PriorityLow, f.sla.ID)
		assertCode(t, err, "FORBIDDEN")
	}
}

func TestAssignRequiresClassification(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Assign(context.Background(), f.agent, ticket.ID, f.engineer.ID)
	assertCode(t, err, "PRECONDITION_FAILED")
}

func TestAssignRequiresEngineerAssignee(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)

	_, err := f.svc.Assign(context.Background(), f.agent, ticket.ID, f.agent.ID)
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestAssignWritesLedgerEntry(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)

	assigned := f.assignTicket(t, ticket.ID)
	if assigned.Status != domain.TicketStatusAssigned {
		t.Fatalf("expected status assigned, got %s", assigned.Status)
	}
	if assigned.AssignedTo == nil || *assigned.AssignedTo != f.engineer.ID {
		t.Fatalf("expected assignee %d", f.engineer.ID)
	}

	entries, err := f.svc.ListAssignments(context.Background(), f.agent, ticket.ID)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].AssignedTo != f.engineer.ID || entries[0].AssignedBy != f.agent.ID {
		t.Fatalf("ledger entry has wrong parties: %+v", entries[0])
	}
}

func TestAssignRollsBackWhenLedgerAppendFails(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)

	f.assignments.appendErr = errors.New("disk full")
	_, err := f.svc.Assign(context.Background(), f.agent, ticket.ID, f.engineer.ID)
	if err == nil {
		t.Fatalf("expected assign to fail")
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.Status != domain.TicketStatusNew || stored.AssignedTo != nil {
		t.Fatalf("ticket update must roll back with the ledger append, got %+v", stored)
	}
}

func TestAssignOnlyFromNewOrReopened(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)

	_, err := f.svc.Assign(context.Background(), f.agent, ticket.ID, f.engineer.ID)
	assertCode(t, err, "INVALID_STATE")
}

func TestStatusTransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		role    domain.Role
		from    domain.TicketStatus
		to      domain.TicketStatus
		allowed bool
	}{
		{"engineer assigned to in_progress", domain.RoleEngineer, domain.TicketStatusAssigned, domain.TicketStatusInProgress, true},
		{"engineer in_progress to on_hold", domain.RoleEngineer, domain.TicketStatusInProgress, domain.TicketStatusOnHold, true},
		{"engineer on_hold to in_progress", domain.RoleEngineer, domain.TicketStatusOnHold, domain.TicketStatusInProgress, true},
		{"engineer in_progress to resolved", domain.RoleEngineer, domain.TicketStatusInProgress, domain.TicketStatusResolved, true},
		{"engineer assigned to resolved", domain.RoleEngineer, domain.TicketStatusAssigned, domain.TicketStatusResolved, true},
		{"engineer cannot close", domain.RoleEngineer, domain.TicketStatusResolved, domain.TicketStatusClosed, false},
		{"engineer cannot skip to closed", domain.RoleEngineer, domain.TicketStatusInProgress, domain.TicketStatusClosed, false},
		{"agent resolved to closed", domain.RoleAgent, domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{"admin resolved to closed", domain.RoleAdmin, domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{"agent closed to reopened", domain.RoleAgent, domain.TicketStatusClosed, domain.TicketStatusReopened, true},
		{"admin cannot close unresolved", domain.RoleAdmin, domain.TicketStatusInProgress, domain.TicketStatusClosed, false},
		{"agent cannot reopen resolved directly", domain.RoleAgent, domain.TicketStatusResolved, domain.TicketStatusReopened, false},
		{"no self transition", domain.RoleAdmin, domain.TicketStatusClosed, domain.TicketStatusClosed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTicketFixture(t)
			ticket := f.createTicket(t)
			f.classifyTicket(t, ticket.ID)

			stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
			stored.Status = tc.from
			stored.AssignedTo = &f.engineer.ID
			if err := f.tickets.Update(context.Background(), stored); err != nil {
				t.Fatalf("seed status: %v", err)
			}

			caller := f.admin
			switch tc.role {
			case domain.RoleEngineer:
				caller = f.engineer
			case domain.RoleAgent:
				caller = f.agent
			}

			_, err := f.svc.ChangeStatus(context.Background(), caller, ticket.ID, tc.to)
			if tc.allowed && err != nil {
				t.Fatalf("expected transition to succeed, got %v", err)
			}
			if !tc.allowed && err == nil {
				t.Fatalf("expected transition to fail")
			}
		})
	}
}

func TestChangeStatusRejectsCustomers(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.ChangeStatus(context.Background(), f.customer, ticket.ID, domain.TicketStatusResolved)
	assertCode(t, err, "FORBIDDEN")
}

func TestEngineerMustBeAssigneeToChangeStatus(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)

	other := f.users.add(domain.User{Name: "Omar", Email: "omar@example.com", Role: domain.RoleEngineer})
	_, err := f.svc.ChangeStatus(context.Background(), other, ticket.ID, domain.TicketStatusInProgress)
	assertCode(t, err, "FORBIDDEN")
}

func TestStartWorkMovesTicketInProgress(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)

	started, err := f.svc.StartWork(context.Background(), f.engineer, ticket.ID)
	if err != nil {
		t.Fatalf("start work: %v", err)
	}
	if started.Status != domain.TicketStatusInProgress {
		t.Fatalf("expected in_progress, got %s", started.Status)
	}

	_, err = f.svc.StartWork(context.Background(), f.engineer, ticket.ID)
	assertCode(t, err, "INVALID_STATE")
}

func TestReopenWindowBoundaryIsInclusive(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)
	if _, err := f.svc.ChangeStatus(context.Background(), f.engineer, ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	f.clock.advance(48 * time.Hour)
	reopened, err := f.svc.Reopen(context.Background(), f.customer, ticket.ID)
	if err != nil {
		t.Fatalf("reopen at exactly 48h must succeed: %v", err)
	}
	if reopened.Status != domain.TicketStatusReopened {
		t.Fatalf("expected reopened, got %s", reopened.Status)
	}
}

func TestReopenAfterWindowFails(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)
	if _, err := f.svc.ChangeStatus(context.Background(), f.engineer, ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	f.clock.advance(48*time.Hour + time.Second)
	_, err := f.svc.Reopen(context.Background(), f.customer, ticket.ID)
	assertCode(t, err, "WINDOW_EXPIRED")
}

func TestReopenOnlyByCreator(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)
	if _, err := f.svc.ChangeStatus(context.Background(), f.engineer, ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	other := f.users.add(domain.User{Name: "Nia", Email: "nia@example.com", Role: domain.RoleCustomer})
	_, err := f.svc.Reopen(context.Background(), other, ticket.ID)
	assertCode(t, err, "FORBIDDEN")
}

func TestReopenedTicketCanBeReassigned(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)
	if _, err := f.svc.ChangeStatus(context.Background(), f.engineer, ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := f.svc.Reopen(context.Background(), f.customer, ticket.ID); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	f.assignTicket(t, ticket.ID)
	entries, err := f.svc.ListAssignments(context.Background(), f.agent, ticket.ID)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two ledger entries after reassignment, got %d", len(entries))
	}
}

func TestDeleteOnlyNewUnassignedByCreator(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	if err := f.svc.Delete(context.Background(), f.agent, ticket.ID); err == nil {
		t.Fatalf("staff must not delete tickets")
	}

	other := f.users.add(domain.User{Name: "Nia", Email: "nia2@example.com", Role: domain.RoleCustomer})
	err := f.svc.Delete(context.Background(), other, ticket.ID)
	assertCode(t, err, "FORBIDDEN")

	if err := f.svc.Delete(context.Background(), f.customer, ticket.ID); err != nil {
		t.Fatalf("creator delete of new ticket: %v", err)
	}

	assignedTicket := f.createTicket(t)
	f.classifyTicket(t, assignedTicket.ID)
	f.assignTicket(t, assignedTicket.ID)
	err = f.svc.Delete(context.Background(), f.customer, assignedTicket.ID)
	assertCode(t, err, "INVALID_STATE")
}

func TestCustomerVisibilityScope(t *testing.T) {
	f := newTicketFixture(t)
	mine := f.createTicket(t)

	other := f.users.add(domain.User{Name: "Nia", Email: "nia3@example.com", Role: domain.RoleCustomer})
	otherAddress := f.addresses.add(domain.Address{UserID: other.ID, Street: "2 Oak Ave", City: "Metropolis", State: "NY", PostalCode: "10002", Country: "US"})
	theirs, err := f.svc.Create(context.Background(), other, CreateTicketInput{
		IssueDescription: "vpn drops hourly", IssueCategoryID: f.category.ID, AddressID: otherAddress.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Get(context.Background(), f.customer, theirs.ID)
	assertCode(t, err, "FORBIDDEN")

	listed, err := f.svc.List(context.Background(), f.customer, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != mine.ID {
		t.Fatalf("customer list must be scoped to own tickets, got %d", len(listed))
	}

	all, err := f.svc.List(context.Background(), f.agent, ListInput{})
	if err != nil {
		t.Fatalf("staff list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("staff should see all tickets, got %d", len(all))
	}
}

func TestEngineerQueueFilter(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)
	f.createTicket(t)

	queue, err := f.svc.List(context.Background(), f.engineer, ListInput{AssignedToMe: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != ticket.ID {
		t.Fatalf("expected only the assigned ticket in queue, got %d", len(queue))
	}
}

func TestFullLifecycle(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	f.classifyTicket(t, ticket.ID)
	f.assignTicket(t, ticket.ID)

	if _, err := f.svc.StartWork(context.Background(), f.engineer, ticket.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.ChangeStatus(context.Background(), f.engineer, ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := f.svc.ChangeStatus(context.Background(), f.agent, ticket.ID, domain.TicketStatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}

	f.clock.advance(time.Hour)
	reopened, err := f.svc.Reopen(context.Background(), f.customer, ticket.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != domain.TicketStatusReopened {
		t.Fatalf("expected reopened, got %s", reopened.Status)
	}
	if !reopened.Classified() {
		t.Fatalf("reopen must keep the classification")
	}
}
