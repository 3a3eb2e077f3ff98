package auth

import "github.com/spec-kit/support-crm/internal/domain"

// Resource and Action name the cells of the authorization policy table.
type Resource string

const (
	ResourceUsers      Resource = "users"
	ResourceComplaints Resource = "complaints"
	ResourceTickets    Resource = "tickets"
	ResourceAnalytics  Resource = "analytics"
	ResourceReports    Resource = "reports"
)

type Action string

const (
	ActionRegister       Action = "register"
	ActionList           Action = "list"
	ActionRead           Action = "read"
	ActionListStaff      Action = "list_staff"
	ActionReadStaff      Action = "read_staff"
	ActionDelete         Action = "delete"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionUpdateStatus   Action = "update_status"
	ActionResolve        Action = "resolve"
	ActionStartProgress  Action = "start_progress"
	ActionClose          Action = "close"
	ActionListAssigned   Action = "list_assigned"
	ActionViewDashboards Action = "view_dashboards"
)

type policyKey struct {
	Resource Resource
	Action   Action
}

// policy is the whole role-authorization surface as one auditable artifact.
// Per-document ownership rules (assignee, creator, matching customer) are
// layered on top of this inside the services; they cannot be expressed as a
// static role grant.
var policy = map[policyKey][]domain.Role{
	{ResourceUsers, ActionRegister}:  {domain.RoleAdmin, domain.RoleStaff},
	{ResourceUsers, ActionList}:      {domain.RoleAdmin, domain.RoleStaff},
	{ResourceUsers, ActionRead}:      {domain.RoleAdmin, domain.RoleStaff},
	{ResourceUsers, ActionListStaff}: {domain.RoleAdmin},
	{ResourceUsers, ActionReadStaff}: {domain.RoleAdmin},
	{ResourceUsers, ActionDelete}:    {domain.RoleAdmin},

	{ResourceComplaints, ActionList}:         {domain.RoleAdmin, domain.RoleStaff},
	{ResourceComplaints, ActionRead}:         {domain.RoleAdmin, domain.RoleStaff},
	{ResourceComplaints, ActionUpdateStatus}: {domain.RoleAdmin, domain.RoleStaff},
	{ResourceComplaints, ActionDelete}:       {domain.RoleAdmin, domain.RoleStaff},

	{ResourceTickets, ActionCreate}:        {domain.RoleAdmin, domain.RoleStaff},
	{ResourceTickets, ActionList}:          {domain.RoleAdmin, domain.RoleStaff},
	{ResourceTickets, ActionUpdate}:        {domain.RoleAdmin, domain.RoleStaff},
	{ResourceTickets, ActionDelete}:        {domain.RoleAdmin},
	{ResourceTickets, ActionResolve}:       {domain.RoleTechnician},
	{ResourceTickets, ActionStartProgress}: {domain.RoleTechnician},
	{ResourceTickets, ActionClose}:         {domain.RoleAdmin, domain.RoleStaff},
	{ResourceTickets, ActionListAssigned}:  {domain.RoleAdmin, domain.RoleStaff, domain.RoleTechnician},
	{ResourceTickets, ActionRead}:          {domain.RoleAdmin, domain.RoleStaff, domain.RoleTechnician},

	{ResourceAnalytics, ActionViewDashboards}: {domain.RoleAdmin, domain.RoleStaff},
	{ResourceReports, ActionViewDashboards}:   {domain.RoleAdmin, domain.RoleStaff},
}

// Allowed reports whether the role may perform the action on the resource.
func Allowed(role domain.Role, resource Resource, action Action) bool {
	for _, allowed := range policy[policyKey{resource, action}] {
		if allowed == role {
			return true
		}
	}
	return false
}
