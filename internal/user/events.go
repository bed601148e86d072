// Package user holds user domain events.
package user

import "userd/internal/user/models"

// Created is emitted exactly once per successful creation, after the record
// is persisted and before the response is sent.
type Created struct {
	User models.IdentifiedUser `json:"user"`
}

func (Created) Name() string {
	return "UserCreated"
}
