package sqlstore

import (
	"database/sql"
	"fmt"
	"pair-chat/errors"
	"pair-chat/repositories"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repositories.IUserRepository {
	return &UserRepository{db: db}
}

func (u *UserRepository) CreateUser(newUser repositories.NewUser) (string, error) {
	id := uuid.New().String()
	_, err := u.db.Exec(
		`INSERT INTO users (id, name, email, password_hash, roles, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, newUser.Name, newUser.Email, newUser.PasswordHash, "user", time.Now().UnixNano())
	if isUniqueViolation(err) {
		return "", errors.ErrUserAlreadyExists
	}
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (u *UserRepository) GetUserByEmail(email string) (repositories.User, error) {
	var user repositories.User
	var roles string
	var createdAt int64
	err := u.db.QueryRow(
		`SELECT id, name, email, password_hash, roles, created_at FROM users WHERE email = ?`, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &roles, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.User{}, fmt.Errorf("get user: %w", errors.ErrUserNotFound)
	}
	if err != nil {
		return repositories.User{}, fmt.Errorf("get user: %w", err)
	}
	if roles != "" {
		user.Roles = strings.Split(roles, ",")
	}
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return user, nil
}
