package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrProfileNotFound   = errors.New("profile not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrPackageNotFound     = errors.New("credit package not found")
	ErrPaymentDeclined     = errors.New("payment declined")

	ErrAssistantNotConfigured = errors.New("assistant api key not configured")
)
