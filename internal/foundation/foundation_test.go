package foundation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("logging.format"), OneOf("logging.format", []string{"text", "json"}))

	assert.True(t, chain.Validate("json").Valid)

	result := chain.Validate("")
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "required", result.Errors[0].Code)
	assert.Equal(t, "one_of", result.Errors[1].Code)
}

func TestInRange(t *testing.T) {
	v := InRange("parser.max_nesting", 1, 256)
	assert.True(t, v(1).Valid)
	assert.True(t, v(256).Valid)

	result := v(0)
	require.False(t, result.Valid)
	assert.Equal(t, 0, result.Errors[0].Value)
	assert.Equal(t, "parser.max_nesting: must be between 1 and 256", result.Errors[0].Error())
}

func TestEach(t *testing.T) {
	v := Each("transforms", func(field string) Validator[string] { return NotEmpty(field) })
	result := v([]string{"identity", " ", "merge_text"})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "transforms[1]", result.Errors[0].Field)
}

func TestToError(t *testing.T) {
	assert.NoError(t, Valid().ToError())

	result := Check(0, InRange("watch.debounce_ms", 1, 10)).
		Combine(Check("xml", OneOf("logging.format", []string{"text", "json"})))
	err := result.ToError()
	require.Error(t, err)

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryConfig, classified.Category())
	assert.Contains(t, classified.Message(), "watch.debounce_ms: must be between 1 and 10")
	assert.Contains(t, classified.Message(), "logging.format: must be one of: [text json]")

	fields, ok := classified.Context().Get("fields")
	require.True(t, ok)
	assert.Equal(t, []string{"watch.debounce_ms", "logging.format"}, fields)
}
