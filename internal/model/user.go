package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// OTPState holds one generation of a one-time code. The plaintext code is
// never stored; only its hash. A consumed or invalidated generation is
// represented by the zero value.
type OTPState struct {
	CodeHash   string     `bson:"codeHash,omitempty" json:"-"`
	ExpiresAt  *time.Time `bson:"expiresAt,omitempty" json:"-"`
	Attempts   int        `bson:"attempts,omitempty" json:"-"`
	LastSentAt *time.Time `bson:"lastSentAt,omitempty" json:"-"`
}

// Issued reports whether a code generation is currently stored.
func (s *OTPState) Issued() bool {
	return s.CodeHash != "" && s.ExpiresAt != nil
}

// Clear consumes the current generation.
func (s *OTPState) Clear() {
	s.CodeHash = ""
	s.ExpiresAt = nil
	s.Attempts = 0
	s.LastSentAt = nil
}

// User is a storefront account. Unverified users are removed by a TTL index
// once their verification window lapses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"-"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified"`

	EmailVerify   OTPState `bson:"emailVerify" json:"-"`
	ResetPassword OTPState `bson:"resetPassword" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
