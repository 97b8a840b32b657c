package report

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestCollectEnvironment(t *testing.T) {
	md := orderedmap.New[string, string]()
	md.Set(KeyProject, "UI Harness BDD")

	CollectEnvironment(md, []string{"capture", "console"})

	goVersion, ok := md.Get(KeyGoVersion)
	assert.True(t, ok)
	assert.Equal(t, runtime.Version(), goVersion)

	plugins, ok := md.Get(KeyPlugins)
	assert.True(t, ok)
	assert.Equal(t, "capture, console", plugins)

	_, ok = md.Get(KeyPackages)
	assert.True(t, ok)

	assert.Equal(t, KeyProject, md.Oldest().Key)
}

func TestSanitizeMetadata(t *testing.T) {
	t.Run("removes plugin and package lists", func(t *testing.T) {
		md := orderedmap.New[string, string]()
		md.Set(KeyProject, "UI Harness BDD")
		md.Set(KeyPlugins, "capture")
		md.Set(KeyPackages, "github.com/google/uuid v1.6.0")
		md.Set(KeyPlatform, "linux/amd64")

		SanitizeMetadata(md)

		_, hasPlugins := md.Get(KeyPlugins)
		_, hasPackages := md.Get(KeyPackages)
		assert.False(t, hasPlugins)
		assert.False(t, hasPackages)
		assert.Equal(t, 2, md.Len())
	})

	t.Run("absent keys are a no-op", func(t *testing.T) {
		md := orderedmap.New[string, string]()
		md.Set(KeyProject, "UI Harness BDD")

		SanitizeMetadata(md)
		SanitizeMetadata(md)

		assert.Equal(t, 1, md.Len())
	})

	t.Run("nil map", func(t *testing.T) {
		assert.NotPanics(t, func() { SanitizeMetadata(nil) })
	})
}
