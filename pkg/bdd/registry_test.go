package bdd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/uiharness/pkg/harness"
)

func noop(*harness.TestContext, ...string) error { return nil }

func TestRegistryMatch(t *testing.T) {
	r := NewRegistry()
	r.Given(`I open the Para Bank homepage`, noop)
	r.When(`I search for "([^"]*)"`, noop)
	r.Then(`I should see the title as "([^"]*)"`, noop)

	t.Run("captures arguments", func(t *testing.T) {
		def, args, err := r.Match(When, `I search for "Pytest BDD tutorial"`)
		require.NoError(t, err)
		assert.Equal(t, When, def.Keyword)
		assert.Equal(t, []string{"Pytest BDD tutorial"}, args)
	})

	t.Run("no arguments", func(t *testing.T) {
		_, args, err := r.Match(Given, "I open the Para Bank homepage")
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("keyword must agree", func(t *testing.T) {
		_, _, err := r.Match(Then, "I open the Para Bank homepage")
		assert.ErrorIs(t, err, ErrStepNotFound)
	})

	t.Run("any keyword", func(t *testing.T) {
		def, _, err := r.Match(Any, "I open the Para Bank homepage")
		require.NoError(t, err)
		assert.Equal(t, Given, def.Keyword)
	})

	t.Run("whole text must match", func(t *testing.T) {
		_, _, err := r.Match(Given, "I open the Para Bank homepage twice")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStepNotFound))
		assert.Contains(t, err.Error(), `"I open the Para Bank homepage twice"`)
	})
}

func TestRegistryRegisterErrors(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Given, "(unclosed", noop))
	assert.Error(t, r.Register(Given, "fine", nil))
	assert.Zero(t, r.Count())

	assert.Panics(t, func() { r.Then("(unclosed", noop) })
}
