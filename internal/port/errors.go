package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrPassNotFound     = errors.New("pass not found")
	ErrRepoNotFound     = errors.New("repository not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidWeight    = errors.New("weight must be between 0 and 100")
)
