// Package setup bootstraps the external tools stillcast depends on.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"stillcast/internal/command"
	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/logging"
)

// ErrNoPackageManager means no supported host package manager was found.
var ErrNoPackageManager = errors.New("no supported package manager found")

// PackageManager describes one supported host package manager.
type PackageManager struct {
	Name        string
	InstallArgs []string
	// packageNames maps abstract needs to this manager's package names.
	// Needs absent from the map keep their abstract name.
	packageNames map[string]string
}

// managers in detection order. Linux system managers first, then brew.
var managers = []PackageManager{
	{Name: "apt-get", InstallArgs: []string{"install", "-y"}},
	{Name: "dnf", InstallArgs: []string{"install", "-y"}},
	{Name: "yum", InstallArgs: []string{"install", "-y"}},
	{Name: "pacman", InstallArgs: []string{"-S", "--noconfirm"}, packageNames: map[string]string{"python3": "python"}},
	{Name: "zypper", InstallArgs: []string{"install", "-y"}},
	{Name: "apk", InstallArgs: []string{"add"}},
	{Name: "brew", InstallArgs: []string{"install"}},
}

// lookPath is swappable in tests.
var lookPath = exec.LookPath

// geteuid is swappable in tests.
var geteuid = os.Geteuid

// DetectManager finds the host's package manager, first match in fixed
// order wins.
func DetectManager() (*PackageManager, error) {
	for i := range managers {
		if _, err := lookPath(managers[i].Name); err == nil {
			logging.D(1, "Detected package manager %q", managers[i].Name)
			return &managers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: install ffmpeg manually with your distribution's package manager", ErrNoPackageManager)
}

// InstallPackages installs the given abstract package needs through the
// manager, with sudo when not running as root.
func (pm *PackageManager) InstallPackages(ctx context.Context, r command.Runner, needs ...string) error {
	name, args := pm.installCommand(needs...)

	logging.I("Installing %v via %s", needs, pm.Name)
	if out, err := r.Run(ctx, name, args, command.Opts{}); err != nil {
		return fmt.Errorf("package installation via %s failed (exit %d): %w: %s",
			pm.Name, out.ExitCode, err, out.StderrTail)
	}
	return nil
}

// installCommand builds the full invocation for the given needs.
func (pm *PackageManager) installCommand(needs ...string) (string, []string) {
	pkgs := make([]string, 0, len(needs))
	for _, need := range needs {
		if mapped, ok := pm.packageNames[need]; ok {
			pkgs = append(pkgs, mapped)
			continue
		}
		pkgs = append(pkgs, need)
	}

	// brew refuses to run under sudo.
	if geteuid() != 0 && pm.Name != "brew" {
		return "sudo", append(append([]string{pm.Name}, pm.InstallArgs...), pkgs...)
	}
	return pm.Name, append(append([]string{}, pm.InstallArgs...), pkgs...)
}

// EnsureFFmpeg checks for the transcoding engine and attempts installation
// when absent. Failure is fatal with manual-install instructions.
func EnsureFFmpeg(ctx context.Context, r command.Runner) error {
	if _, err := lookPath(consts.FFmpeg); err == nil {
		return nil
	}

	logging.W("%s not found, attempting installation", consts.FFmpeg)
	pm, err := DetectManager()
	if err != nil {
		return err
	}
	if err := pm.InstallPackages(ctx, r, consts.FFmpeg); err != nil {
		return fmt.Errorf("%w; install ffmpeg manually and re-run setup", err)
	}
	return nil
}
