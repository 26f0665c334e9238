// Package promptctx holds the snapshot of shell and system state segments
// render from.
package promptctx

import (
	"path/filepath"
	"time"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// Terminal describes the capabilities of the output terminal.
type Terminal struct {
	TTY       bool
	Width     int
	Height    int
	TrueColor bool
	Has256    bool
	Unicode   bool
	Term      string
}

// Context is a value snapshot of everything a prompt can show. It is built
// once by New and refreshed selectively; it is never mutated during a render.
type Context struct {
	Cwd         string
	Home        string
	DisplayPath string
	Username    string
	UID         string
	IsRoot      bool
	Hostname    string
	Writable    bool
	InGitRepo   bool
	GitRoot     string

	Terminal Terminal

	LastExitCode int
	LastDuration time.Duration
	CommandCount int
	JobCount     int
	Now          time.Time

	env   Environment
	clock func() time.Time
}

// Options supplies the collaborators New uses. Nil fields fall back to the
// operating system implementations.
type Options struct {
	Env    Environment
	Prober TerminalProber
	Clock  func() time.Time
}

// New probes identity, hostname, working directory and terminal capabilities.
// A missing working directory or user is a system-call error; a hostname
// failure degrades to "localhost".
func New(opts Options) (*Context, error) {
	env := opts.Env
	if env == nil {
		env = OSEnvironment{}
	}
	prober := opts.Prober
	if prober == nil {
		prober = OSProber{Env: env}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	account, err := env.User()
	if err != nil {
		return nil, apperrors.New(apperrors.CodeSystemCall, "look up current user", err, nil)
	}
	host, err := env.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}

	c := &Context{
		Home:     account.Home,
		Username: account.Name,
		UID:      account.UID,
		IsRoot:   account.UID == "0",
		Hostname: host,
		Terminal: prober.Probe(),
		env:      env,
		clock:    clock,
	}
	if err := c.RefreshDirectory(); err != nil {
		return nil, err
	}
	c.Touch()
	return c, nil
}

// Update records the outcome of the command that just finished.
func (c *Context) Update(exitCode int, duration time.Duration) {
	c.LastExitCode = exitCode
	c.LastDuration = duration
	c.CommandCount++
	c.Touch()
}

// RefreshDirectory re-reads the working directory and recomputes the display
// path, writability and git repository presence.
func (c *Context) RefreshDirectory() error {
	cwd, err := c.env.Getwd()
	if err != nil {
		return apperrors.New(apperrors.CodeSystemCall, "read working directory", err, nil)
	}
	c.SetDirectory(cwd)
	return nil
}

// SetDirectory points the context at dir without asking the environment for
// the working directory, as when the shell reports a change itself.
func (c *Context) SetDirectory(dir string) {
	c.Cwd = filepath.Clean(dir)
	c.DisplayPath = AbbreviateHome(c.Cwd, c.Home)
	c.Writable = c.env.Writable(c.Cwd)
	c.GitRoot = findGitRoot(c.Cwd, c.env.Exists)
	c.InGitRepo = c.GitRoot != ""
}

// SetJobCount records the number of background jobs.
func (c *Context) SetJobCount(n int) {
	if n < 0 {
		n = 0
	}
	c.JobCount = n
}

// Touch refreshes the timestamp.
func (c *Context) Touch() {
	if c.clock == nil {
		c.clock = time.Now
	}
	c.Now = c.clock()
}

// Snapshot returns a copy detached from later updates.
func (c *Context) Snapshot() Context {
	return *c
}

// Getenv reads an environment variable through the context's environment.
func (c *Context) Getenv(key string) string {
	if c.env == nil {
		return ""
	}
	return c.env.Getenv(key)
}

func findGitRoot(dir string, exists func(string) bool) string {
	for {
		if exists(filepath.Join(dir, ".git")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
