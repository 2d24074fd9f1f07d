package user

// Role is the role claim carried by access tokens.
type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Runs payroll for the company
	RoleEmployee Role = "employee" // Regular employee
)

// CanRunPayroll reports whether the role may generate payslips and read the register.
func (r Role) CanRunPayroll() bool {
	return r == RoleManager || r == RoleOwner
}
