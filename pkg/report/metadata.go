package report

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Metadata keys.
const (
	KeyProject     = "Project Name"
	KeyEnvironment = "Test Environment"
	KeyBrowser     = "Browser"
	KeyOperator    = "Executed By"

	KeyGoVersion = "Go"
	KeyPlatform  = "Platform"
	KeyPlugins   = "Plugins"
	KeyPackages  = "Packages"
)

// CollectEnvironment adds the default environment summary: toolchain,
// platform, registered listeners and linked modules.
func CollectEnvironment(md *orderedmap.OrderedMap[string, string], plugins []string) {
	md.Set(KeyGoVersion, runtime.Version())
	md.Set(KeyPlatform, fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
	md.Set(KeyPlugins, strings.Join(plugins, ", "))
	md.Set(KeyPackages, buildPackages())
}

func buildPackages() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	pkgs := make([]string, 0, len(info.Deps))
	for _, dep := range info.Deps {
		pkgs = append(pkgs, dep.Path+" "+dep.Version)
	}
	return strings.Join(pkgs, ", ")
}

// SanitizeMetadata drops the noisy plugin and package lists. Absent keys are ignored.
func SanitizeMetadata(md *orderedmap.OrderedMap[string, string]) {
	if md == nil {
		return
	}
	md.Delete(KeyPlugins)
	md.Delete(KeyPackages)
}
