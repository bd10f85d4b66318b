package model

import "strings"

// AuthenticationKey is an API key issued to a username. Keys are append-only:
// they are never updated or deleted once issued.
type AuthenticationKey struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Key       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	CreatedOn string `gorm:"type:varchar(255);not null" json:"created_on"`
}

// TableName pins the table name existing deployments already use.
func (AuthenticationKey) TableName() string {
	return "authentication_key"
}

// MaskedKey returns the key with everything but the last 4 characters hidden.
func (k AuthenticationKey) MaskedKey() string {
	if len(k.Key) <= 4 {
		return k.Key
	}
	return strings.Repeat("*", len(k.Key)-4) + k.Key[len(k.Key)-4:]
}
