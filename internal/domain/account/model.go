package account

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the users table: an account holder managing their own set of
// patient records.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Surname      string    `db:"surname" json:"surname"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Enterprise   string    `db:"enterprise" json:"enterprise"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PrincipalID implements session.Principal.
func (u *User) PrincipalID() uuid.UUID {
	return u.ID
}
