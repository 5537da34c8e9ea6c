package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyExists = errors.New("auth: user already exists")
	ErrNotFound      = errors.New("auth: user not found")
	ErrBadEmail      = errors.New("auth: invalid email")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Users is the bare-email identity service: registering creates a handle,
// logging in looks it up. No password semantics.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrBadEmail
	}
	return email, nil
}

func (u *Users) Register(ctx context.Context, email string) (User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	var existing string
	err = u.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email=$1`, email).Scan(&existing)
	switch {
	case err == nil:
		return User{}, ErrAlreadyExists
	case !errors.Is(err, sql.ErrNoRows):
		return User{}, err
	}
	usr := User{ID: uuid.NewString(), Email: email}
	_, err = u.db.ExecContext(ctx,
		`INSERT INTO users (id, email, created_at) VALUES ($1,$2,$3)`,
		usr.ID, usr.Email, time.Now().Unix())
	if err != nil {
		return User{}, err
	}
	return usr, nil
}

func (u *Users) Login(ctx context.Context, email string) (User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	var usr User
	err = u.db.QueryRowContext(ctx, `SELECT id, email FROM users WHERE email=$1`, email).
		Scan(&usr.ID, &usr.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return usr, nil
}
