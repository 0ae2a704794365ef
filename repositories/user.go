//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"pair-chat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(newUser NewUser) (string, error)
	GetUserByEmail(email string) (User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// NewUser is an account before the store assigns its id. PasswordHash is already hashed.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}

// User is the domain-friendly representation of a user in the repository layer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// CreateUser persists an already hashed password under the user's email.
// It returns the newly generated User ID
func (u UserRepository) CreateUser(newUser NewUser) (string, error) {
	user := User{
		ID:           uuid.New().String(),
		Name:         newUser.Name,
		Email:        newUser.Email,
		PasswordHash: newUser.PasswordHash,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + user.Email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, marshalUser(user))
	})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// GetUserByEmail retrieves a user from Badger and converts it to the repository.User struct.
func (u UserRepository) GetUserByEmail(email string) (User, error) {
	var user User

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			user, err = unmarshalUser(val)
			return err
		})
	})
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
