package music

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// ExecPlayer loops a track through an external command line player,
// relaunching it each time it exits until paused.
type ExecPlayer struct {
	command string
	args    []string
	track   string
	logger  *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewExecPlayer builds a player. A nil args derives flags from the command:
// ffplay gets headless flags and volume, anything else receives the track path.
func NewExecPlayer(command string, args []string, track string, volume int, logger *zap.Logger) *ExecPlayer {
	if args == nil {
		if filepath.Base(command) == "ffplay" {
			args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-volume", strconv.Itoa(volume), track}
		} else {
			args = []string{track}
		}
	}
	return &ExecPlayer{command: command, args: args, track: track, logger: logger}
}

// Play starts the loop. It returns an error when the track or the command is
// missing, or the first launch fails.
func (p *ExecPlayer) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		select {
		case <-p.done:
			// the loop gave up on its own; start over
			p.cancel()
			p.cancel, p.done = nil, nil
		default:
			return nil
		}
	}
	if _, err := os.Stat(p.track); err != nil {
		p.logger.Info("Audio load error", zap.String("track", p.track), zap.Error(err))
		return fmt.Errorf("audio track: %w", err)
	}
	bin, err := exec.LookPath(p.command)
	if err != nil {
		return fmt.Errorf("audio player: %w", err)
	}

	// playback outlives the caller's context
	pctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(pctx, bin, p.args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start audio player: %w", err)
	}
	p.logger.Info("Music loaded successfully", zap.String("track", p.track))

	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	go p.loop(pctx, cmd, bin, done)
	return nil
}

func (p *ExecPlayer) loop(ctx context.Context, cmd *exec.Cmd, bin string, done chan struct{}) {
	defer close(done)
	for {
		err := cmd.Wait()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.logger.Info("Audio playback stopped", zap.Error(err))
			return
		}
		cmd = exec.CommandContext(ctx, bin, p.args...)
		if err := cmd.Start(); err != nil {
			p.logger.Info("Audio restart failed", zap.Error(err))
			return
		}
	}
}

// Pause stops the running command and waits for the loop to exit.
func (p *ExecPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return nil
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
	return nil
}

// Close is Pause.
func (p *ExecPlayer) Close() error {
	return p.Pause()
}
