// AngelaMos | 2026
// roles.go

package user

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleMaster = "master"
)

var roleRank = map[string]int{
	RoleUser:   0,
	RoleAdmin:  1,
	RoleMaster: 2,
}

func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// CanActOn is the single authorization rule for staff actions on
// other accounts: the actor must strictly outrank the target. An
// admin manages users, a master manages everyone below, and peers
// can never touch each other.
func CanActOn(actorRole, targetRole string) bool {
	return roleRank[actorRole] > roleRank[targetRole]
}
