package kvstore

import (
	"github.com/mkele/darasa/core/user"
)

// userRow is the persisted shape of a profile record.
type userRow struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash []byte `json:"password_hash,omitempty"`
}

func newUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Email:        usr.Email,
		Name:         usr.Name,
		Role:         usr.Role,
		PasswordHash: usr.PasswordHash,
	}
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
	}
}

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var rows []userRow
	if err := repo.db.read(usersKey, &rows); err != nil {
		return user.User{}, err
	}
	rows = append(rows, newUserRow(usr))
	if err := repo.db.write(usersKey, rows); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []userRow
	if err := repo.db.read(usersKey, &rows); err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []userRow
	if err := repo.db.read(usersKey, &rows); err != nil {
		return user.User{}, err
	}
	for _, r := range rows {
		if r.ID == id {
			return r.toUser(), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var rows []userRow
	if err := repo.db.read(usersKey, &rows); err != nil {
		return user.User{}, err
	}
	for _, r := range rows {
		if r.Email == email {
			return r.toUser(), nil
		}
	}
	return user.User{}, user.ErrNotFound
}
