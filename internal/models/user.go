package models

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"-"` // don’t expose hash
	Disabled     bool   `json:"disabled"`
}

// IsActive reports whether the account may perform write operations.
func (u User) IsActive() bool {
	return !u.Disabled
}

// UserCreate is the registration payload.
type UserCreate struct {
	Username string `json:"username" binding:"required,min=3,max=64,excludes=:" example:"alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	FullName string `json:"full_name" binding:"required,max=128" example:"Alice Liddell"`
	Password string `json:"password" binding:"required" example:"weakpassword"`
}

// UserLogin carries credentials for token issuance.
type UserLogin struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"weakpassword"`
}

// UserToken is returned by a successful login.
type UserToken struct {
	Token string `json:"token"`
}

// NewUser is what the credential store persists: a UserCreate with the
// password already hashed.
type NewUser struct {
	Username     string
	Email        string
	FullName     string
	PasswordHash string
}

// UserUpdate holds optional profile fields. Nil fields are left unchanged.
type UserUpdate struct {
	Email    *string
	FullName *string
}

// Apply merges the non-nil fields of upd over u.
func (upd UserUpdate) Apply(u User) User {
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	return u
}
