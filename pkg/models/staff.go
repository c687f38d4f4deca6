package models

// StaffUser is a back-office account. Customer-facing shoppers live in the
// customers table and never authenticate against this service.
type StaffUser struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	FullName     string `json:"full_name" db:"full_name"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}
