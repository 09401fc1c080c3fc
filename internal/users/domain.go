// internal/users/domain.go
package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Password holds the encoded argon2id hash and
// must be stripped before any external exposure.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Password   string    `json:"-"`
	Bio        string    `json:"bio,omitempty"`
	LinkedIn   string    `json:"linkedin,omitempty"`
	X          string    `json:"x,omitempty"`
	GitHub     string    `json:"github,omitempty"`
	AvatarLink string    `json:"avatar_link,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Public returns a copy safe to hand past the trust boundary.
func (u *User) Public() *User {
	pub := *u
	pub.Password = ""
	return &pub
}

// ProfileUpdate is the allow-listed set of mutable profile fields. Nil means
// "leave unchanged"; a pointer to the empty string clears the field.
type ProfileUpdate struct {
	Name       *string `json:"name"`
	X          *string `json:"x"`
	GitHub     *string `json:"github"`
	LinkedIn   *string `json:"linkedin"`
	AvatarLink *string `json:"avatar_link"`
	Bio        *string `json:"bio"`
}

// Empty reports whether the patch touches no fields.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.X == nil && p.GitHub == nil &&
		p.LinkedIn == nil && p.AvatarLink == nil && p.Bio == nil
}
