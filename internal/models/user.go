package models

// User is keyed by email; the email is the owner key of every other record.
type User struct {
	PasswordHash string `json:"password_hash" bson:"password_hash"`
}
