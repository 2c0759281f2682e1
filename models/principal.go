package models

// Role is the caller capability resolved once per request.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleMember    Role = "member" // authenticated, no customer profile
	RoleCustomer  Role = "customer"
	RoleStaff     Role = "staff"
)

// Principal identifies the caller of a request. CustomerID is set only for
// RoleCustomer.
type Principal struct {
	UserID     uint
	Role       Role
	CustomerID uint
}

func Anonymous() Principal {
	return Principal{Role: RoleAnonymous}
}

func (p Principal) Authenticated() bool {
	return p.Role != RoleAnonymous && p.Role != ""
}

func (p Principal) IsStaff() bool {
	return p.Role == RoleStaff
}

func (p Principal) IsCustomer() bool {
	return p.Role == RoleCustomer && p.CustomerID != 0
}
