package domain

import "errors"

var (
	ErrNotFound  = errors.New("vision not found")
	ErrForbidden = errors.New("vision belongs to another user")
	ErrPlanLimit = errors.New("plan limit exceeded")
	ErrInvalid   = errors.New("invalid goal payload")
)
