package domain

// Admin account loaded from the users file. The app never writes it.
// Password is either plaintext or a bcrypt hash.
type User struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Accounts used when no users file exists.
func DefaultUsers() []User {
	return []User{{Email: "admin@uni.pl", Password: "123456"}}
}
