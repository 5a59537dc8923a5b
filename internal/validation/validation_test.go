package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required"`
	Score int    `validate:"min=0,max=100"`
	Kind  string `validate:"oneof=a b"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "x", Score: 50, Kind: "a"}))

	err := Struct(sample{Score: 101, Kind: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample.Name: required")
	assert.Contains(t, err.Error(), "sample.Score: max=100")
	assert.Contains(t, err.Error(), "sample.Kind: oneof=a b")
}
