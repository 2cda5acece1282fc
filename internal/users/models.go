package users

import "time"

// Credential row statuses. Rows are managed externally; this service
// only ever reads them.
const (
	StatusActive  = "Active"
	StatusBlocked = "Blocked"
)

// UserLogin is a credential row: login id plus bcrypt password hash and
// audit fields. The auth flow consults it during login and never
// mutates it.
type UserLogin struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserGuid     string     `json:"user_guid" gorm:"uniqueIndex;not null"`
	LoginID      string     `json:"login_id" gorm:"column:login_id;uniqueIndex;not null"`
	Password     string     `json:"-" gorm:"column:pwd;not null"` // bcrypt hash, hidden in json
	LastLoggedIn *time.Time `json:"last_logged_in"`
	LastLoggedIP string     `json:"last_logged_ip"`
	AddedOn      time.Time  `json:"added_on"`
	AddedIP      string     `json:"added_ip"`
	UpdatedOn    time.Time  `json:"updated_on"`
	UpdatedIP    string     `json:"updated_ip"`
	Status       string     `json:"status" gorm:"not null;default:'Active'"`
}
