package version

import "testing"

func restore(t *testing.T) {
	v, c, b := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = v, c, b })
}

func TestGet_LinkerValuesWin(t *testing.T) {
	restore(t)
	Version, GitCommit, BuildTime = "1.2.0", "abcdef0123456789", "2024-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" || info.BuildTime != "2024-01-15T10:30:00Z" {
		t.Errorf("info = %+v", info)
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("commit = %q, want shortened", info.GitCommit)
	}
}

func TestInfo_String(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0 (abc1234)"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0 (abc1234-dirty)"},
		{Info{Version: "1.0.0", BuildTime: "2024-01-15T10:30:00Z"}, "1.0.0 (built 2024-01-15T10:30:00Z)"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", BuildTime: "t"}, "1.0.0 (abc1234, built t)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	restore(t)
	Version = "2.0.0"
	if got := UserAgent(); got != "okreq/2.0.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
