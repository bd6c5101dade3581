// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and the registry service can all import types
// without depending on each other.
package types

import "time"

// Student represents one registration record as it is stored.
//
// ID and CreatedAt are assigned by the storage engine and never change
// afterwards. Phone is optional and is stored as NULL when empty.
type Student struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Course    string    `json:"course"`
	CreatedAt time.Time `json:"createdAt"`
}

// StudentInput is the set of mutable fields a client sends on create
// and update.
//
// The validate:"required" tags are checked by go-playground/validator,
// but only on update: creation accepts the input as-is.
//
// HTML form submissions use the JSON key names as form field names.
type StudentInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required"`
	Phone     string `json:"phone"`
	Course    string `json:"course"    validate:"required"`
}
