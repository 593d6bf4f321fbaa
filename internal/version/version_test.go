package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, built, dirty string, info *debug.BuildInfo) {
	t.Helper()
	saved := []string{Version, GitCommit, BuildTime, GitDirty}
	savedRead := readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildTime, GitDirty = saved[0], saved[1], saved[2], saved[3]
		readBuildInfo = savedRead
	})
	Version, GitCommit, BuildTime, GitDirty = version, commit, built, dirty
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		dirty   string
		info    *debug.BuildInfo
		want    string
	}{
		{name: "defaults", version: "dev", want: "dev"},
		{name: "ldflags", version: "v1.2.3", want: "v1.2.3"},
		{name: "dirty tree", version: "v1.2.3", dirty: "dirty", want: "v1.2.3-dirty"},
		{name: "go install", version: "dev", info: &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, want: "v0.4.0"},
		{name: "devel build", version: "dev", info: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, want: "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.version, "unknown", "unknown", tt.dirty, tt.info)
			assert.Equal(t, tt.want, GetVersion())
		})
	}
}

func TestGetFullVersion(t *testing.T) {
	stamp(t, "v1.0.0", "unknown", "unknown", "", nil)
	assert.Equal(t, "v1.0.0", GetFullVersion())

	stamp(t, "v1.0.0", "abc1234567", "unknown", "", nil)
	assert.Equal(t, "v1.0.0 (commit abc1234)", GetFullVersion())

	stamp(t, "v1.0.0", "abc", "2026-01-02", "", nil)
	assert.Equal(t, "v1.0.0 (commit abc, built 2026-01-02)", GetFullVersion())
}
