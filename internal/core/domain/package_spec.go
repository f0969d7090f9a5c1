package domain

import (
	"strings"
)

// DefaultPackager is the packager binary used when the configuration does not name one.
const DefaultPackager = "wasm-pack"

// Profile is the packager build profile.
type Profile string

const (
	// ProfileDev builds without optimizations and with debug assertions.
	ProfileDev Profile = "dev"
	// ProfileRelease builds an optimized package.
	ProfileRelease Profile = "release"
	// ProfileProfiling builds an optimized package that keeps debug info.
	ProfileProfiling Profile = "profiling"
)

// ParseProfile validates a profile name. "development" is accepted as an alias for dev.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(s) {
	case "dev", "development", "debug":
		return ProfileDev, nil
	case "release":
		return ProfileRelease, nil
	case "profiling":
		return ProfileProfiling, nil
	default:
		return "", tag(ErrInvalidProfile, "profile", s)
	}
}

// Platform is the JavaScript environment the package is generated for.
type Platform string

const (
	// PlatformWeb produces an ES module loadable directly by browsers.
	PlatformWeb Platform = "web"
	// PlatformBundler produces a package for webpack-style bundlers.
	PlatformBundler Platform = "bundler"
	// PlatformNodeJS produces a CommonJS package for Node.js.
	PlatformNodeJS Platform = "nodejs"
	// PlatformNoModules produces a script without ES modules.
	PlatformNoModules Platform = "no-modules"
	// PlatformDeno produces a package for Deno.
	PlatformDeno Platform = "deno"
)

// ParsePlatform validates a platform name.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(s)); p {
	case PlatformWeb, PlatformBundler, PlatformNodeJS, PlatformNoModules, PlatformDeno:
		return p, nil
	default:
		return "", tag(ErrInvalidPlatform, "platform", s)
	}
}

// PackageSpec describes one packager invocation.
type PackageSpec struct {
	Profile         Profile
	Platform        Platform
	DefaultFeatures bool
	Features        []string
	OutDir          string
}

// Command renders the spec as a packager invocation.
// Cargo feature flags are passed through after "--".
func (p PackageSpec) Command(packager string) Command {
	if packager == "" {
		packager = DefaultPackager
	}

	args := []string{"build", "--" + string(p.Profile), "--target", string(p.Platform)}
	if p.OutDir != "" {
		args = append(args, "--out-dir", p.OutDir)
	}

	var cargo []string
	if !p.DefaultFeatures {
		cargo = append(cargo, "--no-default-features")
	}
	if len(p.Features) > 0 {
		cargo = append(cargo, "--features", strings.Join(p.Features, ","))
	}
	if len(cargo) > 0 {
		args = append(args, "--")
		args = append(args, cargo...)
	}

	return Exec(packager, args...)
}
