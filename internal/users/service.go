package users

import (
	"errors"
	"time"

	"rail-ticketing/internal/models"
	"rail-ticketing/internal/storage"
	"rail-ticketing/internal/utils"
)

// ErrInvalidCredentials is returned on a failed login without revealing
// whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service manages the user collection. Passwords are stored and compared as
// plain text, exactly as the dataset has always held them; hardening them is
// out of scope here.
type Service struct {
	Store *storage.Collection[models.User]
}

func NewService(store *storage.Collection[models.User]) *Service {
	return &Service{Store: store}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (s *Service) Register(req RegisterRequest) (*models.User, error) {
	if req.Name == "" {
		return nil, models.ValidationError{Field: "name", Msg: "required"}
	}
	if req.Email == "" {
		return nil, models.ValidationError{Field: "email", Msg: "required"}
	}
	if req.Password == "" {
		return nil, models.ValidationError{Field: "password", Msg: "required"}
	}

	var created models.User
	_, err := s.Store.Update(func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Email == req.Email {
				return nil, models.ConflictError{Msg: "a user with this email already exists"}
			}
		}
		created = models.User{
			ID:        storage.NextID(users),
			Name:      req.Name,
			Email:     req.Email,
			Password:  req.Password,
			Phone:     req.Phone,
			Role:      models.RoleUser,
			CreatedAt: utils.FormatTimestamp(time.Now()),
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Login(email, password string) (*models.User, error) {
	users, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			user := u
			return &user, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *Service) List() ([]models.User, error) {
	return s.Store.Load()
}
