package models

// Role names as the platform API reports them in token claims and in the
// user directory.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User is the authenticated identity held by the session store. It is
// derived from bearer-token claims and, for administrators, enriched from
// the user directory.
type User struct {
	ID           string
	UserName     string
	Roles        []string
	IsFirstLogin bool
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DirectoryUser is the /users endpoint DTO.
type DirectoryUser struct {
	ID           string   `json:"id"`
	UserName     string   `json:"userName"`
	Roles        []string `json:"roles"`
	IsFirstLogin bool     `json:"isFirstLogin"`
}
