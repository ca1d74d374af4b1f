package identity

import (
	"fmt"
	"net/url"
	"time"
)

// User is one identity document. Two variants exist: self-registered users
// carry Login credentials and can sign in; official records are created by
// an admin purely so the gradebook has a row for them, and Login is nil.
type User struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Official  bool      `json:"isOfficial"`
	Login     *Login    `json:"login,omitempty"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
}

// Login holds the credentials of a self-registered identity. The email is
// synthesized as {username}@{domain} so a plain username/password scheme
// rides on an email-based auth mechanism.
type Login struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Profile is the user-editable presentation state.
type Profile struct {
	Avatar         string `json:"avatar"`
	Banner         string `json:"banner"`
	Bio            string `json:"bio"`
	SignatureColor string `json:"signatureColor"`
}

// CanSignIn reports whether this identity has usable credentials.
func (u User) CanSignIn() bool {
	return u.Login != nil && u.Login.PasswordHash != ""
}

// DefaultAvatar builds the placeholder avatar URL used when a user has not
// uploaded one.
func DefaultAvatar(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}
