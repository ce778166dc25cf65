package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studyplan/internal/apperr"
)

type sample struct {
	Duration int     `validate:"gt=0"`
	Rating   int     `validate:"min=1,max=5"`
	Focus    float64 `validate:"gte=0,lte=1"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Duration: 30, Rating: 3, Focus: 0.5}))

	fields := Validate(sample{Duration: 0, Rating: 9, Focus: 0.5})
	require.Len(t, fields, 2)
	assert.Equal(t, "Duration", fields[0].Field)
	assert.Equal(t, "must satisfy gt=0", fields[0].Message)
	assert.Equal(t, "Rating", fields[1].Field)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("sample", sample{Duration: 1, Rating: 1}))

	err := Check("sample", sample{Rating: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "Duration must satisfy gt=0")
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(3, 1, 5))
	assert.Error(t, ValidateIntRange(0, 1, 5))
}
