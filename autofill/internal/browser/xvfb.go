package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// display is a private Xvfb server for headful mode on a machine without X.
type display struct {
	name   string
	cmd    *exec.Cmd
	logger *slog.Logger
}

// startDisplay runs Xvfb on name (":99") and waits for its socket.
func startDisplay(ctx context.Context, name string, logger *slog.Logger) (*display, error) {
	cmd := exec.Command("Xvfb", name, "-screen", "0", "1920x1080x24", "-ac", "-nolisten", "tcp")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start xvfb: %w", err)
	}
	d := &display{name: name, cmd: cmd, logger: logger}

	socket := filepath.Join("/tmp/.X11-unix", "X"+strings.TrimPrefix(name, ":"))
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, err := os.Stat(socket); err == nil {
			break
		}
		if time.Now().After(deadline) {
			d.stop()
			return nil, fmt.Errorf("xvfb %s: socket %s did not appear", name, socket)
		}
		select {
		case <-ctx.Done():
			d.stop()
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	logger.Info("browser: xvfb started", "display", name, "pid", cmd.Process.Pid)
	return d, nil
}

func (d *display) stop() {
	if d == nil || d.cmd.Process == nil {
		return
	}
	d.cmd.Process.Kill()
	d.cmd.Wait()
	d.logger.Info("browser: xvfb stopped", "display", d.name)
}
