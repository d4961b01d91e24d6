package auth

import "time"

type (
	LoginIn struct {
		EmailOrUsername string
		Password        string
	}

	RegisterIn struct {
		Email                string
		Username             string
		Password             string
		PasswordConfirmation string
	}
)

const (
	// msgUnexpected is shown for transport and other non-API failures.
	msgUnexpected         = "An error occurred. Please try again later."
	msgCredentialsMissing = "Email/username and password are required"
	msgRegistered         = "Account created successfully! Redirecting to login..."
	msgResetSentTitle     = "Email Sent Successfully!"
	msgResetSent          = "Check your inbox for password reset instructions. The link will expire in 1 hour."

	registerRedirectAfter = 2 * time.Second
	resetRedirectAfter    = 5 * time.Second
)
