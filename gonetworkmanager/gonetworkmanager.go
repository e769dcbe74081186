// nmwifi/gonetworkmanager/gonetworkmanager.go
package gonetworkmanager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"nmwifi/logging"
)

// --- Constants for nmcli field names ---
const (
	NmcliFieldWifiInUse           = "IN-USE"
	NmcliFieldWifiSSID            = "SSID"
	NmcliFieldWifiSecurity        = "SECURITY"
	NmcliFieldConnectionName      = "NAME"
	NmcliFieldConnectionType      = "TYPE"
	NmcliFieldConnectionTimestamp = "TIMESTAMP-REAL"

	ConnectionTypeWifi     = "wifi"
	ConnectionTypeWireless = "802-11-wireless"

	wifiSecKeyMgmt = "wifi-sec.key-mgmt"
	wifiSecPSK     = "wifi-sec.psk"
	keyMgmtWPAPSK  = "wpa-psk"
)

const (
	// DefaultCommand is the nmcli command line used when none is configured.
	DefaultCommand = "nmcli"
	// DefaultTimeout bounds a single nmcli invocation.
	DefaultTimeout = 30 * time.Second
)

// Field lists passed to nmcli -f, in the order the parsers expect.
var (
	wifiListFields  = strings.Join([]string{NmcliFieldWifiInUse, NmcliFieldWifiSSID, NmcliFieldWifiSecurity}, ",")
	savedListFields = strings.Join([]string{NmcliFieldConnectionName, NmcliFieldConnectionType, NmcliFieldConnectionTimestamp}, ",")
)

var (
	ErrEmptySSID     = errors.New("SSID empty")
	ErrEmptyCommand  = errors.New("nmcli command empty")
	ErrNmcliNotFound = errors.New("nmcli not found in PATH")
)

// Options configures a Client.
type Options struct {
	// Command is the nmcli command line, e.g. "nmcli" or "sudo -n nmcli".
	Command string
	Timeout time.Duration
	// Rescan asks NetworkManager for a fresh scan on every list.
	Rescan bool
}

// Client runs nmcli. It is safe for concurrent use; every call starts its
// own process.
type Client struct {
	argv    []string
	timeout time.Duration
	rescan  bool
}

// NewClient builds a Client from opts, splitting the command line with
// shell quoting rules.
func NewClient(opts Options) (*Client, error) {
	command := opts.Command
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse nmcli command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{argv: argv, timeout: timeout, rescan: opts.Rescan}, nil
}

// Command returns a copy of the split command line.
func (c *Client) Command() []string {
	out := make([]string, len(c.argv))
	copy(out, c.argv)
	return out
}

// CheckAvailable reports ErrNmcliNotFound when the configured executable
// cannot be resolved.
func (c *Client) CheckAvailable() error {
	if _, err := exec.LookPath(c.argv[0]); err != nil {
		return fmt.Errorf("%w: %s (%v)", ErrNmcliNotFound, c.argv[0], err)
	}
	return nil
}

// runResult is the captured outcome of one invocation.
type runResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// --- Core nmcli Interaction ---
func (c *Client) runNmcli(ctx context.Context, args ...string) (runResult, error) {
	return c.runSecret(ctx, nil, args...)
}

// runSecret is runNmcli for invocations carrying credentials. Every
// element of secrets is masked in the returned error and in the log.
func (c *Client) runSecret(ctx context.Context, secrets []string, args ...string) (runResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	full := make([]string, 0, len(c.argv)-1+len(args))
	full = append(full, c.argv[1:]...)
	full = append(full, args...)
	cmd := exec.CommandContext(ctx, c.argv[0], full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	res := runResult{
		// Only trailing newlines are dropped; SSIDs may end in spaces.
		stdout: strings.TrimRight(stdout.String(), "\r\n"),
		stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
		} else {
			res.exitCode = -1
		}
		if res.exitCode == 0 {
			res.exitCode = -1
		}
		if ctx.Err() != nil {
			err = fmt.Errorf("%w (%v)", ctx.Err(), err)
		}
		cmdline := strings.Join(logging.RedactArgs(args, secrets...), " ")
		if res.stderr != "" {
			err = fmt.Errorf("nmcli command '%s' failed: %s (underlying error: %w)", cmdline, logging.RedactText(res.stderr, secrets...), err)
		} else {
			err = fmt.Errorf("nmcli command '%s' failed: %w", cmdline, err)
		}
	}

	logging.LogCommand(cmd.Args, res.exitCode, time.Since(start), err, secrets...)
	if err == nil && res.stderr != "" {
		logging.Warn("nmcli command succeeded but produced stderr",
			zap.Strings("args", logging.RedactArgs(args, secrets...)),
			zap.String("stderr", logging.RedactText(res.stderr, secrets...)))
	}
	return res, err
}

// statusFrom turns a finished invocation into a user-facing Status. okMsg
// replaces nmcli's own success chatter, which tends to wrap badly.
func statusFrom(res runResult, err error, okMsg string) Status {
	if err == nil {
		return Status{Message: okMsg}
	}
	msg := res.stderr
	if res.exitCode == -1 && msg == "" {
		msg = fmt.Sprintf("Failed to execute nmcli: %v", errors.Unwrap(err))
	}
	if msg == "" {
		msg = err.Error()
	}
	return Status{Message: msg, ExitCode: res.exitCode}
}
