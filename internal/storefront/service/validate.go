package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps "Field.tag" to the message returned to clients.
var fieldMessages = map[string]string{
	"Name.required":     "Name must be at least 3 characters long",
	"Name.min":          "Name must be at least 3 characters long",
	"Name.max":          "Name must be at most 15 characters long",
	"Email.required":    "Invalid email",
	"Email.email":       "Invalid email",
	"Password.required": "Password must be at least 8 characters long",
	"Password.min":      "Password must be at least 8 characters long",
	"Password.max":      "Password must be at most 128 characters long",
	"Role.oneof":        "Role must be USER or ADMIN",
	"Title.required":    "Title is required",
	"Title.min":         "Title is required",
	"Title.max":         "Title must be at most 200 characters long",
	"Content.max":       "Content must be at most 10000 characters long",
	"Price.gte":         "Price must not be negative",
}

// validateInput runs the struct's validate tags and folds every failure into
// one ValidationError.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, messageFor(fe))
	}
	return &domain.ValidationError{Messages: msgs}
}

func messageFor(fe validator.FieldError) string {
	if m, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
