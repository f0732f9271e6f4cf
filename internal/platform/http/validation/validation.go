// Package validation registers the custom binding tags used by the request DTOs.
package validation

import (
	"errors"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fiction_backend/internal/feature/fiction/domain/entity"
)

// Tag names usable in `binding:"..."` struct tags.
const (
	TagUsername = "username"
	TagGenre    = "genre"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom tags on gin's default validator.
// It is safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding validator is not go-playground/validator")
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation(TagUsername, isUsername); err != nil {
		return err
	}
	return v.RegisterValidation(TagGenre, isGenre)
}

// isUsername accepts Unicode letters and digits, underscore and hyphen.
func isUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// isGenre accepts any casing of a known genre.
func isGenre(fl validator.FieldLevel) bool {
	_, ok := entity.NormalizeGenre(fl.Field().String())
	return ok
}
