package domain

import "time"

// Role is a coarse access tier. The set is closed: RoleUser and RoleAdmin.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultRole is assigned to every self-registered account.
const DefaultRole = RoleUser

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account holder. PasswordHash holds either a bcrypt digest or a
// legacy cipher value, depending on when the password was last set.
type User struct {
	ID           int64     `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	Age          int       `json:"age" bson:"age"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Merge copies the profile fields of patch that are set. Empty strings and a
// zero age mean "not provided" and leave the stored value untouched.
func (u *User) Merge(patch User) {
	if patch.FirstName != "" {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		u.LastName = patch.LastName
	}
	if patch.Age > 0 {
		u.Age = patch.Age
	}
}
