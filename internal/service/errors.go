package service

import "errors"

var (
	ErrValidation    = errors.New("validation")     // 400
	ErrNotFound      = errors.New("not found")      // 404
	ErrBusinessLogic = errors.New("business logic") // 422
	ErrDatabase      = errors.New("database")       // 500
)
