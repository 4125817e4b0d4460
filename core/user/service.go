package user

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mkele/darasa/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		// CreateUser appends the user to the profiles collection.
		// No uniqueness check is performed at this layer.
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new profile with a generated id.
// Callers check email uniqueness beforehand via CheckEmailUniqueness.
func (svc *Service) Create(nu NewUser) (User, error) {
	usr := User{
		ID:    nu.Role + "-" + uuid.New().String(),
		Email: nu.Email,
		Name:  nu.Name,
		Role:  nu.Role,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

// CheckEmailUniqueness reports ErrEmailExists as a field-level validation error.
func (svc *Service) CheckEmailUniqueness(email string) error {
	_, err := svc.repo.GetUserByEmail(email)
	if err == nil {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}
	if err == ErrNotFound {
		return nil
	}
	return err
}
