package domain

import "time"

// User is the aggregate root. It is owned by the repository: the services
// never mutate it in place, only through UpdateUser patches.
type User struct {
	ID         UserID
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Email      EmailAddress
	Password   HashedPassword // zero when the account is federated-only
	FirstName  FirstName
	LastName   LastName
	Role       Role
	Gender     Gender // empty when not supplied
	IsVerified bool
	IsBanned   bool
	GoogleID   GoogleID
	FacebookID FacebookID
}

// CanAuthenticate gates every authentication path: banned or unverified
// accounts never get a session.
func (u *User) CanAuthenticate() bool {
	return u.IsVerified && !u.IsBanned
}

// NewUser is the creation DTO handed to the repository.
type NewUser struct {
	Email      EmailAddress
	Password   HashedPassword
	FirstName  FirstName
	LastName   LastName
	Gender     Gender
	GoogleID   GoogleID
	FacebookID FacebookID
	IsVerified bool
}

// UpdateUser is a merge-patch: nil fields keep their stored values,
// non-nil fields overwrite them. The repository refreshes updated_at on
// every patch.
type UpdateUser struct {
	Password   *HashedPassword
	FirstName  *FirstName
	LastName   *LastName
	Gender     *Gender
	IsVerified *bool
	GoogleID   *GoogleID
	FacebookID *FacebookID
}

// AppUser is the identity threaded through authenticated operations. It
// carries no credential material.
type AppUser struct {
	ID        UserID
	Email     EmailAddress
	FirstName FirstName
	LastName  LastName
	Role      Role
	Gender    Gender
}

func (u *User) AppUser() AppUser {
	return AppUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Gender:    u.Gender,
	}
}
