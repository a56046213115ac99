package model

import "time"

// Roles stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used by the
// repository layer; handlers define separate response types with
// appropriate JSON tags so the password hash and email code never leak.
//
// Fields:
//  ID                 – primary key identifier of the user.
//  Name               – display name.
//  Email              – unique email address.
//  PasswordHash       – bcrypt hashed password, never returned to clients.
//  Role               – "user" or "admin".
//  ProfileImage       – URL of the profile picture.
//  EmailVerified      – whether the email address has been confirmed.
//  EmailCode          – current numeric email verification code ("" when none).
//  EmailCodeExpires   – expiry of the code (null when none outstanding).
//  VerificationStatus – identity review state (unverified/pending/verified/rejected).
//  Verified           – true only when VerificationStatus is verified.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type User struct {
	ID                 uint64     // users.id
	Name               string     // users.name
	Email              string     // users.email
	PasswordHash       string     // users.password_hash
	Role               string     // users.role
	ProfileImage       string     // users.profile_image
	EmailVerified      bool       // users.email_verified
	EmailCode          string     // users.email_code
	EmailCodeExpires   *time.Time // users.email_code_expires (nullable)
	VerificationStatus string     // users.verification_status
	Verified           bool       // users.verified
	CreatedAt          time.Time  // users.created_at
	UpdatedAt          time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
