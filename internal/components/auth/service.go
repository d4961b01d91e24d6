package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/validate"
)

var ErrIncompleteLogin = errors.New("login response lacks token or username")

type (
	servicer interface {
		Login(ctx context.Context, in LoginIn) (*apiclient.LoginResponse, error)
		Register(ctx context.Context, in RegisterIn) error
		ForgotPassword(ctx context.Context, email string) error
	}

	service struct {
		api *apiclient.Client
	}
)

func NewAuthService(api *apiclient.Client) servicer {
	return &service{api: api}
}

// Login exchanges credentials for an API token. No password rules apply here.
func (s *service) Login(ctx context.Context, in LoginIn) (*apiclient.LoginResponse, error) {
	login := strings.TrimSpace(in.EmailOrUsername)
	if login == "" || in.Password == "" {
		return nil, &validate.Error{Field: "email_or_username", Message: msgCredentialsMissing}
	}

	out, err := s.api.Login(ctx, apiclient.LoginRequest{EmailOrUsername: login, Password: in.Password})
	if err != nil {
		return nil, err
	}
	if out.Token == "" || out.Username == "" {
		return nil, ErrIncompleteLogin
	}
	return out, nil
}

// Register validates the form locally and only then calls the API.
func (s *service) Register(ctx context.Context, in RegisterIn) error {
	if err := validate.Registration(in.Username, in.Password, in.PasswordConfirmation); err != nil {
		return err
	}

	_, err := s.api.Register(ctx, apiclient.RegisterRequest{
		Email:    strings.TrimSpace(in.Email),
		Username: in.Username,
		Password: in.Password,
	})
	return err
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validate.Email(email); err != nil {
		return err
	}
	_, err := s.api.ForgotPassword(ctx, email)
	return err
}
