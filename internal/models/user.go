package models

type UserRole string

const (
	RolePlayer    UserRole = "PLAYER"
	RoleModerator UserRole = "MODERATOR"
	RoleAdmin     UserRole = "ADMINISTRATOR"
)

// UserIdentity is the caller identity attached to each request by the auth
// middleware. The quiz service does not own user data; these fields come
// from the token minted by the user service.
type UserIdentity struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

func (u UserIdentity) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u UserIdentity) IsModerator() bool {
	return u.Role == RoleModerator
}
