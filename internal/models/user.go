package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is referenced by tickets through userId/userName/userEmail by value
// only; deleting a user leaves its tickets in place.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) RecordID() int { return u.ID }

// PublicUser is the wire shape for login/register responses. Password and
// phone never leave the service.
type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
