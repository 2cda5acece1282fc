package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claim values stamped into every access token at login. Protected
// routes require the CAUSER user-type marker.
const (
	RoleUser       = "User"
	UserTypeCAUser = "CAUSER"
)

// AccessClaims is the claim set carried by an access token: subject is
// the user GUID, plus the client IP, a fixed role marker and a fixed
// user-type marker. On refresh the set is recovered verbatim from the
// old token.
type AccessClaims struct {
	ClientIP string `json:"client_ip,omitempty"`
	Role     string `json:"role,omitempty"`
	UserType string `json:"user_type,omitempty"`
	jwt.RegisteredClaims
}

// RefreshToken is an opaque random token owned by a single user. It
// lives in the in-memory cache keyed by its string value.
type RefreshToken struct {
	UserName    string    `json:"username"`
	TokenString string    `json:"token_string"`
	ExpireAt    time.Time `json:"expire_at"`
}

// UserToken is the ledger row holding the latest issued pair for a
// user. One row per user, overwritten in place on every issuance.
type UserToken struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserGuid           string    `json:"user_guid" gorm:"uniqueIndex;not null"`
	Token              string    `json:"token" gorm:"type:text;not null"`
	RefreshToken       string    `json:"refresh_token" gorm:"not null"`
	TokenCreatedOn     time.Time `json:"token_created_on"`
	TokenValidTill     time.Time `json:"token_valid_till"`
	RefreshTokenExpire time.Time `json:"refresh_token_expire"`
}

// AuthResult is what Issue and Refresh hand back to the auth flow.
type AuthResult struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken *RefreshToken `json:"refresh_token"`
	UserName     string        `json:"user_name"`
}
