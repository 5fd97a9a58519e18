package entity

// Role identifies the authority level of an acting user
type Role string

const (
	RoleStudent    Role = "student"
	RoleCompany    Role = "company"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
	RoleSystem     Role = "system"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated principal driving an operation. It is supplied
// by the surrounding auth layer; the engine never resolves users itself.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// System is the actor used for engine-internal transitions, e.g. the entity
// status update that follows an approval.
var System = Actor{ID: "system", Role: RoleSystem}
