package auth

import (
	"github.com/spec-kit/netdesk/internal/domain"
)

// Operation names a permission-gated service entry point.
type Operation string

const (
	OpTicketCreate   Operation = "ticket.create"
	OpTicketClassify Operation = "ticket.classify"
	OpTicketAssign   Operation = "ticket.assign"
	OpTicketClose    Operation = "ticket.close"
	OpTicketReopen   Operation = "ticket.reopen"
	OpTicketDelete   Operation = "ticket.delete"
	OpTicketListAll  Operation = "ticket.list_all"
	OpFeedbackSubmit Operation = "feedback.submit"
	OpSLAManage      Operation = "sla.manage"
	OpSLAList        Operation = "sla.list"
	OpCategoryManage Operation = "category.manage"
	OpUserList       Operation = "user.list"
	OpUserCreate     Operation = "user.create"
	OpAddressManage  Operation = "address.manage"
)

// policy is the single source of truth for role membership per
// operation. Role- and state-conditional rules (assignee-only status
// changes, creator-only reopens) layer on top of it in the services.
var policy = map[Operation][]domain.Role{
	OpTicketCreate:   {domain.RoleCustomer},
	OpTicketClassify: {domain.RoleAdmin, domain.RoleManager, domain.RoleAgent},
	OpTicketAssign:   {domain.RoleAdmin, domain.RoleManager, domain.RoleAgent, domain.RoleEngineer},
	OpTicketClose:    {domain.RoleAdmin, domain.RoleAgent},
	OpTicketReopen:   {domain.RoleAdmin, domain.RoleAgent, domain.RoleCustomer},
	OpTicketDelete:   {domain.RoleCustomer},
	OpTicketListAll:  {domain.RoleAdmin, domain.RoleManager, domain.RoleAgent, domain.RoleEngineer},
	OpFeedbackSubmit: {domain.RoleCustomer},
	OpSLAManage:      {domain.RoleAdmin},
	OpSLAList:        {domain.RoleAdmin, domain.RoleManager, domain.RoleAgent},
	OpCategoryManage: {domain.RoleAdmin, domain.RoleManager},
	OpUserList:       {domain.RoleAdmin},
	OpUserCreate:     {domain.RoleAdmin},
	OpAddressManage:  {domain.RoleAdmin, domain.RoleCustomer},
}

// Allowed reports whether the role may invoke the operation.
func Allowed(op Operation, role domain.Role) bool {
	for _, allowed := range policy[op] {
		if allowed == role {
			return true
		}
	}
	return false
}
