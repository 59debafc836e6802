package validate

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RutTag(t *testing.T) {
	type form struct {
		Rut string `validate:"required,rut"`
	}
	v := New()

	assert.NoError(t, v.Struct(form{Rut: "12.345.678-5"}))
	assert.NoError(t, v.Struct(form{Rut: "10000030k"}))

	err := v.Struct(form{Rut: "12.345.678-4"})
	require.Error(t, err)
	errs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "rut", errs[0].ActualTag())
}
