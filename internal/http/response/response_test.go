package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"max=3"`
	}

	err := validator.New().Struct(form{Name: "toolong"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "field Email is a required field, field Name is too long", resp.Error)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, Response{Status: StatusOK, Data: 1}, StatusOKWithData(1))
	assert.Equal(t, ErrorResponse{Status: StatusError, Error: "boom"}, Error("boom"))
}
