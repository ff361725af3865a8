package setup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillcast/internal/command"
	"stillcast/internal/domain/consts"
)

type fakeRunner struct {
	calls [][]string
	err   error
	out   command.Outcome
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ command.Opts) (command.Outcome, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func stubLookPath(t *testing.T, available map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if path, ok := available[name]; ok {
			return path, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func stubEuid(t *testing.T, euid int) {
	t.Helper()
	orig := geteuid
	geteuid = func() int { return euid }
	t.Cleanup(func() { geteuid = orig })
}

func TestDetectManagerOrder(t *testing.T) {
	tests := []struct {
		name      string
		available map[string]string
		want      string
		wantErr   bool
	}{
		{
			name:      "apt wins over brew",
			available: map[string]string{"apt-get": "/usr/bin/apt-get", "brew": "/opt/homebrew/bin/brew"},
			want:      "apt-get",
		},
		{
			name:      "dnf wins over yum",
			available: map[string]string{"yum": "/usr/bin/yum", "dnf": "/usr/bin/dnf"},
			want:      "dnf",
		},
		{
			name:      "brew alone",
			available: map[string]string{"brew": "/opt/homebrew/bin/brew"},
			want:      "brew",
		},
		{
			name:      "nothing found",
			available: map[string]string{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubLookPath(t, tt.available)

			pm, err := DetectManager()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoPackageManager)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pm.Name)
		})
	}
}

func TestInstallCommand(t *testing.T) {
	tests := []struct {
		name     string
		manager  string
		euid     int
		needs    []string
		wantName string
		wantArgs []string
	}{
		{
			name:     "apt as user gets sudo",
			manager:  "apt-get",
			euid:     1000,
			needs:    []string{"ffmpeg"},
			wantName: "sudo",
			wantArgs: []string{"apt-get", "install", "-y", "ffmpeg"},
		},
		{
			name:     "apt as root skips sudo",
			manager:  "apt-get",
			euid:     0,
			needs:    []string{"ffmpeg"},
			wantName: "apt-get",
			wantArgs: []string{"install", "-y", "ffmpeg"},
		},
		{
			name:     "pacman maps python3",
			manager:  "pacman",
			euid:     0,
			needs:    []string{"python3", "ffmpeg"},
			wantName: "pacman",
			wantArgs: []string{"-S", "--noconfirm", "python", "ffmpeg"},
		},
		{
			name:     "brew never uses sudo",
			manager:  "brew",
			euid:     501,
			needs:    []string{"ffmpeg"},
			wantName: "brew",
			wantArgs: []string{"install", "ffmpeg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubEuid(t, tt.euid)

			var pm *PackageManager
			for i := range managers {
				if managers[i].Name == tt.manager {
					pm = &managers[i]
					break
				}
			}
			require.NotNil(t, pm)

			name, args := pm.installCommand(tt.needs...)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEnsureFFmpegAlreadyPresent(t *testing.T) {
	stubLookPath(t, map[string]string{"ffmpeg": "/usr/bin/ffmpeg"})

	r := &fakeRunner{}
	require.NoError(t, EnsureFFmpeg(context.Background(), r))
	assert.Empty(t, r.calls, "no installation should run when ffmpeg is present")
}

func TestEnsureFFmpegInstalls(t *testing.T) {
	stubLookPath(t, map[string]string{"apt-get": "/usr/bin/apt-get"})
	stubEuid(t, 0)

	r := &fakeRunner{}
	require.NoError(t, EnsureFFmpeg(context.Background(), r))
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"apt-get", "install", "-y", "ffmpeg"}, r.calls[0])
}

func TestEnsureFFmpegNoManager(t *testing.T) {
	stubLookPath(t, map[string]string{})

	r := &fakeRunner{}
	err := EnsureFFmpeg(context.Background(), r)
	require.ErrorIs(t, err, ErrNoPackageManager)
	assert.Empty(t, r.calls)
}

func TestEnsureYTDLPPrefersPath(t *testing.T) {
	stubLookPath(t, map[string]string{consts.YTDLP: "/usr/local/bin/yt-dlp"})

	tm := NewToolManager(&fakeRunner{}, t.TempDir())
	path, err := tm.EnsureYTDLP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/yt-dlp", path)
}

func TestEnsureYTDLPUsesManagedCopy(t *testing.T) {
	stubLookPath(t, map[string]string{})

	dataDir := t.TempDir()
	binDir := filepath.Join(dataDir, consts.BinDirName)
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	managed := filepath.Join(binDir, consts.YTDLP)
	require.NoError(t, os.WriteFile(managed, []byte("#!/bin/sh\n"), 0o755))

	origPath := os.Getenv("PATH")
	t.Cleanup(func() { os.Setenv("PATH", origPath) })

	tm := NewToolManager(&fakeRunner{}, dataDir)
	path, err := tm.EnsureYTDLP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, managed, path)
	assert.Contains(t, filepath.SplitList(os.Getenv("PATH")), binDir)
}

func TestEnsureYTDLPFetches(t *testing.T) {
	stubLookPath(t, map[string]string{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("binary payload"))
	}))
	t.Cleanup(srv.Close)

	origPath := os.Getenv("PATH")
	t.Cleanup(func() { os.Setenv("PATH", origPath) })

	dataDir := t.TempDir()
	tm := NewToolManager(&fakeRunner{}, dataDir)
	tm.releaseURL = srv.URL

	path, err := tm.EnsureYTDLP(context.Background())
	require.NoError(t, err)

	want := filepath.Join(dataDir, consts.BinDirName, consts.YTDLP)
	assert.Equal(t, want, path)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "binary payload", string(data))

	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(dataDir, consts.BinDirName))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should remain")
}

func TestEnsureYTDLPFetchFailure(t *testing.T) {
	stubLookPath(t, map[string]string{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	tm := NewToolManager(&fakeRunner{}, t.TempDir())
	tm.releaseURL = srv.URL

	_, err := tm.EnsureYTDLP(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestUpdateRunsSelfUpdater(t *testing.T) {
	stubLookPath(t, map[string]string{consts.YTDLP: "/usr/local/bin/yt-dlp"})

	r := &fakeRunner{}
	tm := NewToolManager(r, t.TempDir())
	tm.Update(context.Background())

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"/usr/local/bin/yt-dlp", "-U"}, r.calls[0])
}
