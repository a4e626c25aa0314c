package entity

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleOwner      Role = "OWNER"
	RoleContractor Role = "CONTRACTOR"
)

// Actor is the identity every lifecycle operation is evaluated against.
// It is passed in explicitly; the service layer holds no session state.
type Actor struct {
	ID    string
	Email string
	Roles []Role
}

func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}
