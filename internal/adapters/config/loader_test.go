package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grit/internal/adapters/config"
	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/grit/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func targetNames(tbl *domain.Table) []string {
	var out []string
	for target := range tbl.Targets() {
		out = append(out, target.Name)
	}
	return out
}

func TestLoader_Load_Builtin(t *testing.T) {
	loader := newLoader(t)

	tbl, err := loader.Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"clean", "debug", "release", "format", "all"}, targetNames(tbl))
	assert.Equal(t, "all", tbl.Default())

	clean, ok := tbl.Get("clean")
	require.True(t, ok)
	assert.Equal(t, []domain.Command{domain.Remove("pkg")}, clean.Commands)
	assert.Equal(t, "clean done", clean.Marker)

	debug, _ := tbl.Get("debug")
	require.Len(t, debug.Commands, 1)
	assert.Equal(t, []string{"wasm-pack", "build", "--dev", "--target", "web"}, debug.Commands[0].Argv())
	assert.Equal(t, "debug build done", debug.Marker)

	release, _ := tbl.Get("release")
	require.Len(t, release.Commands, 1)
	assert.Equal(t,
		[]string{"wasm-pack", "build", "--release", "--target", "web", "--", "--no-default-features"},
		release.Commands[0].Argv())
	assert.Equal(t, "release build done", release.Marker)

	format, _ := tbl.Get("format")
	require.Len(t, format.Commands, 1)
	assert.Equal(t, []string{"cargo", "fmt"}, format.Commands[0].Argv())
	assert.Empty(t, format.Marker)

	all, _ := tbl.Get("all")
	assert.Equal(t, []string{"clean", "release"}, all.Prerequisites)
	assert.Empty(t, all.Commands)
	assert.Empty(t, all.Marker)
}

func TestLoader_Builtin_MatchesEmptyRoot(t *testing.T) {
	loader := newLoader(t)

	fromRoot, err := loader.Load(t.TempDir(), "")
	require.NoError(t, err)
	builtin, err := loader.Builtin()
	require.NoError(t, err)

	assert.Equal(t, targetNames(builtin), targetNames(fromRoot))
}

func TestLoader_Load_ProjectFile(t *testing.T) {
	loader := newLoader(t)
	root := t.TempDir()

	createFile(t, root, config.FileName, `
version: "1"
packager: /opt/bin/wasm-pack
targets:
  zeta:
    steps:
      - cmd: echo zeta
  alpha:
    deps: [zeta]
    steps:
      - pack: {profile: profiling, target: nodejs, features: [simd], outDir: dist}
        dir: crate
        env: {RUSTFLAGS: "-C target-feature=+simd128"}
    done: alpha done
`)

	tbl, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha"}, targetNames(tbl))
	assert.Equal(t, "zeta", tbl.Default(), "first declared target is the default")

	zeta, _ := tbl.Get("zeta")
	assert.Equal(t, []string{"echo", "zeta"}, zeta.Commands[0].Argv())

	alpha, _ := tbl.Get("alpha")
	require.Len(t, alpha.Commands, 1)
	cmd := alpha.Commands[0]
	assert.Equal(t, []string{
		"/opt/bin/wasm-pack", "build", "--profiling", "--target", "nodejs",
		"--out-dir", "dist", "--", "--features", "simd",
	}, cmd.Argv())
	assert.Equal(t, "crate", cmd.Dir)
	assert.Equal(t, map[string]string{"RUSTFLAGS": "-C target-feature=+simd128"}, cmd.Env)
	assert.Equal(t, "alpha done", alpha.Marker)
}

func TestLoader_Load_ExplicitPath(t *testing.T) {
	loader := newLoader(t)
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "ci"), 0o750))

	createFile(t, filepath.Join(root, "ci"), "grit.ci.yaml", `
targets:
  lint:
    steps:
      - cmd: [cargo, clippy]
`)

	tbl, err := loader.Load(root, "ci/grit.ci.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"lint"}, targetNames(tbl))
}

func TestLoader_Load_ExplicitPathMissing(t *testing.T) {
	loader := newLoader(t)

	_, err := loader.Load(t.TempDir(), "nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Contains(t, zErr.Metadata()["path"], "nope.yaml")
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectedErr error
		errContains string
	}{
		{
			name:        "Invalid YAML",
			content:     "targets: [unclosed",
			errContains: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:        "Unsupported Version",
			content:     "version: \"2\"\ntargets: {}\n",
			expectedErr: domain.ErrUnsupportedVersion,
		},
		{
			name:        "Targets Not A Mapping",
			content:     "targets: [a, b]\n",
			errContains: "targets must be a mapping",
		},
		{
			name:        "Step With Two Actions",
			content:     "targets:\n  x:\n    steps:\n      - cmd: [echo]\n        remove: pkg\n",
			expectedErr: domain.ErrInvalidStep,
		},
		{
			name:        "Step With No Action",
			content:     "targets:\n  x:\n    steps:\n      - dir: crate\n",
			expectedErr: domain.ErrInvalidStep,
		},
		{
			name:        "Invalid Profile",
			content:     "targets:\n  x:\n    steps:\n      - pack: {profile: turbo}\n",
			expectedErr: domain.ErrInvalidProfile,
		},
		{
			name:        "Invalid Platform",
			content:     "targets:\n  x:\n    steps:\n      - pack: {profile: dev, target: wasi}\n",
			expectedErr: domain.ErrInvalidPlatform,
		},
		{
			name:        "Remove Outside Root",
			content:     "targets:\n  x:\n    steps:\n      - remove: ../elsewhere\n",
			expectedErr: domain.ErrPathOutsideRoot,
		},
		{
			name:        "Remove Absolute Path",
			content:     "targets:\n  x:\n    steps:\n      - remove: /tmp/pkg\n",
			expectedErr: domain.ErrPathOutsideRoot,
		},
		{
			name:        "Remove Project Root",
			content:     "targets:\n  x:\n    steps:\n      - remove: ./\n",
			errContains: "refusing to remove the project root",
		},
		{
			name:        "Dir Outside Root",
			content:     "targets:\n  x:\n    steps:\n      - cmd: [ls]\n        dir: ../..\n",
			expectedErr: domain.ErrPathOutsideRoot,
		},
		{
			name:        "Missing Prerequisite",
			content:     "targets:\n  all:\n    deps: [clean]\n",
			expectedErr: domain.ErrMissingPrerequisite,
		},
		{
			name:        "Cycle",
			content:     "targets:\n  a:\n    deps: [b]\n  b:\n    deps: [a]\n",
			expectedErr: domain.ErrCyclicDependency,
		},
		{
			name:        "Unknown Default",
			content:     "default: all\ntargets:\n  clean:\n    steps:\n      - remove: pkg\n",
			expectedErr: domain.ErrUnknownTarget,
		},
		{
			name:        "Invalid Target Name",
			content:     "targets:\n  \"has space\":\n    steps:\n      - cmd: [echo]\n",
			expectedErr: domain.ErrInvalidTargetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newLoader(t)
			root := t.TempDir()
			createFile(t, root, config.FileName, tt.content)

			_, err := loader.Load(root, "")
			require.Error(t, err)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			}
			if tt.errContains != "" {
				require.ErrorContains(t, err, tt.errContains)
			}
		})
	}
}

func TestLoader_Parse_DuplicateTarget(t *testing.T) {
	loader := newLoader(t)

	// The second declaration of a name is rejected.
	_, err := loader.Parse([]byte("targets:\n  a: {}\n  a: {}\n"))
	require.Error(t, err)
}

func TestLoader_Parse_WarnsOnEmptyTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(`target "noop" has no prerequisites and no steps`).Times(1)

	loader := config.NewLoader(mockLogger)
	tbl, err := loader.Parse([]byte("targets:\n  noop:\n    description: does nothing\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestLoader_Parse_EmptyTargets(t *testing.T) {
	loader := newLoader(t)

	tbl, err := loader.Parse([]byte("version: \"1\"\ntargets:\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Default())
}
