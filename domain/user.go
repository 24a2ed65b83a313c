package domain

import "time"

// User represents a registered author. Identity (credentials, session
// cookies) is handled by the auth part of the user service and the http
// package; everything else in the system only ever references a user by ID
// or by Username.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"uniqueIndex;size:150;notNull"`
	Email    string `json:"email" gorm:"uniqueIndex;size:254;notNull"`

	// Password is only ever set in memory on incoming register / login
	// data. It is hashed into PasswordHash and cleared before the user
	// record touches the database.
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`

	// Remember is the raw session token handed to the client as a cookie.
	// Only its HMAC is stored.
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	Authenticate(email, password string) (*User, error)
	ByID(id int) (*User, error)
	ByUsername(username string) (*User, error)
	ByRemember(token string) (*User, error)
	Create(user *User) error
	Update(user *User) error
}
