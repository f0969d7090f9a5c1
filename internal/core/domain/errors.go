package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownTarget is returned when a requested target is not declared in the table.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrCyclicDependency is returned when the prerequisite graph contains a cycle.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrNoDefaultTarget is returned when no target is requested and the table has no default.
	ErrNoDefaultTarget = zerr.New("no target requested and no default target declared")

	// ErrCommandFailed is returned when an external command exits with a failure status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrTargetAlreadyExists is returned when attempting to add a target with a name that already exists.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrMissingPrerequisite is returned when a target references a prerequisite that is not declared.
	ErrMissingPrerequisite = zerr.New("missing prerequisite")

	// ErrInvalidTargetName is returned when a target name is empty or contains invalid characters.
	ErrInvalidTargetName = zerr.New("invalid target name")

	// ErrInvalidProfile is returned when a packager profile is not one of dev, release or profiling.
	ErrInvalidProfile = zerr.New("invalid build profile, expected 'dev', 'release' or 'profiling'")

	// ErrInvalidPlatform is returned when a packager platform is not supported.
	ErrInvalidPlatform = zerr.New("invalid target platform")

	// ErrInvalidStep is returned when a configured step does not declare exactly one action.
	ErrInvalidStep = zerr.New("step must set exactly one of 'cmd', 'remove' or 'pack'")

	// ErrEmptyCommand is returned when an exec step has no program.
	ErrEmptyCommand = zerr.New("command has no program")

	// ErrPathOutsideRoot is returned when a removal path escapes the project root.
	ErrPathOutsideRoot = zerr.New("path is outside project root")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigLoadFailed is returned when the target table cannot be loaded.
	ErrConfigLoadFailed = zerr.New("failed to load configuration")

	// ErrUnsupportedVersion is returned when the config file declares an unknown schema version.
	ErrUnsupportedVersion = zerr.New("unsupported config version")

	// ErrBuildFailed is returned when a build invocation fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrRemoveFailed is returned when a recursive removal fails.
	ErrRemoveFailed = zerr.New("failed to remove path")
)

// tag attaches metadata to a sentinel while keeping it matchable with errors.Is.
func tag(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
