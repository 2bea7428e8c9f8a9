package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/felixgeelhaar/tenantready/internal/auth"
	"github.com/felixgeelhaar/tenantready/internal/errors"
)

// defaultScriptTimeout bounds one collector invocation. Collection is
// expected to finish in seconds; delegated sign-in latency lives in the
// auth broker, never here.
const defaultScriptTimeout = 5 * time.Minute

// ScriptFetcher runs an external collector process and reads its envelope
// from stdout. The process receives the access token and tenant through
// its environment, progress text it writes to stderr is passed through,
// and stdout carries nothing but the JSON envelope.
type ScriptFetcher struct {
	command []string
	area    string
	timeout time.Duration
	stderr  io.Writer
}

// NewScriptFetcher creates a fetcher for a collector command line. The
// first element is the program, the rest are its arguments.
func NewScriptFetcher(area string, command []string) *ScriptFetcher {
	return &ScriptFetcher{
		command: command,
		area:    area,
		timeout: defaultScriptTimeout,
		stderr:  os.Stderr,
	}
}

// WithTimeout overrides the per-invocation timeout.
func (f *ScriptFetcher) WithTimeout(d time.Duration) *ScriptFetcher {
	f.timeout = d
	return f
}

// WithStderr redirects the collector's progress output.
func (f *ScriptFetcher) WithStderr(w io.Writer) *ScriptFetcher {
	f.stderr = w
	return f
}

// Fetch implements Fetcher.
func (f *ScriptFetcher) Fetch(ctx context.Context, cred *auth.Credential) (*Envelope, error) {
	if len(f.command) == 0 {
		return nil, errors.New(errors.ErrCodeCollectorExec, "no collector command configured for area "+f.area)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.command[0], f.command[1:]...)
	cmd.Env = append(os.Environ(),
		"READY_AREA="+f.area,
		"READY_ACCESS_TOKEN="+cred.Token.AccessToken,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = f.stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("collector for %s: %w", f.area, ctx.Err())
		}
		return nil, errors.Wrap(errors.ErrCodeCollectorExec,
			fmt.Sprintf("collector process for the %s area failed", f.area), err)
	}

	env, err := DecodeEnvelope(&stdout)
	if err != nil {
		return nil, errors.NewMalformedOutputError(f.area, err)
	}
	return env, nil
}

// FileFetcher reads a pre-collected envelope from a file, or from the
// given reader when path is "-". It ignores the credential: the data was
// collected elsewhere.
type FileFetcher struct {
	path  string
	stdin io.Reader
}

// NewFileFetcher creates a fetcher over a pre-collected envelope file.
func NewFileFetcher(path string, stdin io.Reader) *FileFetcher {
	return &FileFetcher{path: path, stdin: stdin}
}

// Fetch implements Fetcher.
func (f *FileFetcher) Fetch(_ context.Context, _ *auth.Credential) (*Envelope, error) {
	var r io.Reader
	if f.path == "-" {
		r = f.stdin
	} else {
		file, err := os.Open(f.path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, "open pre-collected envelope", err)
		}
		defer file.Close()
		r = file
	}

	env, err := DecodeEnvelope(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "parse pre-collected envelope", err)
	}
	return env, nil
}
