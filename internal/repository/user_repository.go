package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = "id,name,email,password_hash,role,profile_image,email_verified,email_code,email_code_expires,verification_status,verified,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var codeExp sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ProfileImage,
		&u.EmailVerified, &u.EmailCode, &codeExp, &u.VerificationStatus, &u.Verified,
		&u.CreatedAt, &u.UpdatedAt)
	if codeExp.Valid {
		t := codeExp.Time
		u.EmailCodeExpires = &t
	}
	return u, err
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, name, email, password, profileImage string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, profile_image, verification_status) VALUES (?,?,?,?,?,?)",
		name, email, hash, model.RoleUser, profileImage, model.VerificationUnverified)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// Delete removes a user row. Used to replace stale accounts that were
// registered but never completed email verification.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

// SetEmailCode stores a fresh email verification code and its expiry.
func (r *UserRepo) SetEmailCode(ctx context.Context, id uint64, code string, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_code=?, email_code_expires=? WHERE id=?",
		code, expires, id)
	return err
}

// MarkEmailVerified flips the email verification flag and clears the code.
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_verified=1, email_code='', email_code_expires=NULL WHERE id=?", id)
	return err
}

// SetVerificationStatus updates the identity review state on the user row.
func (r *UserRepo) SetVerificationStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET verification_status=? WHERE id=?", status, id)
	return err
}

// markVerifiedTx sets verification_status=verified and verified=1 inside an
// ongoing review transaction. Fired only when a submission is approved.
func markUserVerifiedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET verification_status=?, verified=1 WHERE id=?",
		model.VerificationVerified, id)
	return err
}

// setUserStatusTx updates only verification_status inside a transaction.
func setUserStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET verification_status=? WHERE id=?", status, id)
	return err
}

// UserSearchQuery defines filters & pagination for the admin user console.
type UserSearchQuery struct {
	Role     string
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// UserRow is the admin console projection of a user. The password hash and
// email code never appear here.
type UserRow struct {
	ID                 uint64    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	ProfileImage       string    `json:"profile_image"`
	EmailVerified      bool      `json:"email_verified"`
	VerificationStatus string    `json:"verification_status"`
	Verified           bool      `json:"verified"`
	CreatedAt          time.Time `json:"created_at"`
}

// userSortColumns whitelists sortable columns for Search.
var userSortColumns = map[string]string{
	"created_at":          "created_at",
	"name":                "name",
	"email":               "email",
	"role":                "role",
	"verification_status": "verification_status",
}

// Search returns a page of users matched by role and a case-insensitive
// substring over name, email, verification status and role, along with the
// total count for pagination math.
func (r *UserRepo) Search(ctx context.Context, q UserSearchQuery) ([]UserRow, int64, error) {
	where := []string{}
	args := []any{}
	if q.Role != "" {
		where = append(where, "LOWER(role) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Role)+"%")
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(verification_status) LIKE ? OR LOWER(role) LIKE ?)")
		args = append(args, needle, needle, needle, needle)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := userSortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,role,profile_image,email_verified,verification_status,verified,created_at FROM users WHERE "+
			cond+" ORDER BY "+col+" "+dir+" LIMIT ? OFFSET ?", argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]UserRow, 0, limit)
	for rows.Next() {
		var u UserRow
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ProfileImage,
			&u.EmailVerified, &u.VerificationStatus, &u.Verified, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
