package setup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"stillcast/internal/command"
	cmdflags "stillcast/internal/domain/command"
	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/logging"
)

// ToolManager keeps the download engine binary present and current.
type ToolManager struct {
	runner     command.Runner
	binDir     string
	releaseURL string
	client     *http.Client
}

// NewToolManager returns a manager whose self-fetched binaries live under
// dataDir/bin.
func NewToolManager(r command.Runner, dataDir string) *ToolManager {
	return &ToolManager{
		runner:     r,
		binDir:     filepath.Join(dataDir, consts.BinDirName),
		releaseURL: consts.YTDLPReleaseURL,
		client:     &http.Client{Timeout: consts.BinaryFetchTimeout},
	}
}

// EnsureYTDLP resolves the download engine: PATH first, then the managed
// copy, then a fresh fetch. The managed bin directory is prepended to PATH
// so later invocations by name resolve to it.
func (t *ToolManager) EnsureYTDLP(ctx context.Context) (string, error) {
	if path, err := lookPath(consts.YTDLP); err == nil {
		logging.D(1, "Using %s from PATH: %s", consts.YTDLP, path)
		return path, nil
	}

	managed := filepath.Join(t.binDir, consts.YTDLP)
	if info, err := os.Stat(managed); err == nil && info.Mode().IsRegular() {
		t.exposeBinDir()
		return managed, nil
	}

	logging.I("%s not found, fetching latest release", consts.YTDLP)
	if err := t.fetchBinary(ctx, managed); err != nil {
		return "", fmt.Errorf("failed to bootstrap %s: %w; download it manually from %s and place it in your PATH",
			consts.YTDLP, err, t.releaseURL)
	}

	t.exposeBinDir()
	logging.S("Fetched %s to %s", consts.YTDLP, managed)
	return managed, nil
}

// Update runs the engine's self-updater. Best effort: a failure is reported
// as a warning, not an error, since distribution-packaged copies update
// through the package manager instead.
func (t *ToolManager) Update(ctx context.Context) {
	path, err := t.EnsureYTDLP(ctx)
	if err != nil {
		logging.E("Cannot update: %v", err)
		return
	}

	if out, err := t.runner.Run(ctx, path, []string{cmdflags.Update}, command.Opts{}); err != nil {
		logging.W("Self-update failed (exit %d); if %s came from a package manager, update it there: %s",
			out.ExitCode, consts.YTDLP, out.StderrTail)
		return
	}
	logging.S("%s is up to date", consts.YTDLP)
}

// fetchBinary downloads the release binary to dest via temp+rename with the
// executable bit set.
func (t *ToolManager) fetchBinary(ctx context.Context, dest string) error {
	if err := os.MkdirAll(t.binDir, 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.releaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("release download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("release download failed: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(t.binDir, consts.YTDLP+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed writing binary: %w", err)
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// exposeBinDir prepends the managed bin directory to PATH for this process,
// so engine invocations by bare name resolve to the managed copy.
func (t *ToolManager) exposeBinDir() {
	path := os.Getenv("PATH")
	if path == "" {
		os.Setenv("PATH", t.binDir)
		return
	}
	if !filepath.IsAbs(t.binDir) {
		return
	}
	for _, p := range filepath.SplitList(path) {
		if p == t.binDir {
			return
		}
	}
	os.Setenv("PATH", t.binDir+string(os.PathListSeparator)+path)
}
