// Package pipelinetest provides a scripted fake host and assertions for pipeline tests.
package pipelinetest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

var _ ports.Host = (*FakeHost)(nil)

// ModuleCall records a call made through the fake's ModuleCaller.
type ModuleCall struct {
	Module   string
	Function string
	Args     []string
}

type rule struct {
	match  string
	result ports.CommandResult
	err    error
}

// FakeHost is an in-memory ports.Host. Commands are recorded and answered by
// the first rule whose substring matches the command line; unmatched commands succeed
// with empty output.
type FakeHost struct {
	mu       sync.Mutex
	platform entities.Platform
	env      map[string]string
	missing  []string
	rules    []rule
	requests []ports.CommandRequest
	calls    []ModuleCall
	setEnvs  [][]entities.EnvVar
	callErr  error
}

// Option configures a FakeHost.
type Option func(*FakeHost)

// WithPlatform sets the platform reported by the fake. Default is linux/x86_64.
func WithPlatform(os, arch string) Option {
	return func(h *FakeHost) {
		h.platform = entities.Platform{OS: os, Arch: arch}
	}
}

// WithEnv seeds an environment variable.
func WithEnv(name, value string) Option {
	return func(h *FakeHost) {
		h.env[name] = value
	}
}

// WithMissingTool makes `command -v tool` fail.
func WithMissingTool(tool string) Option {
	return func(h *FakeHost) {
		h.missing = append(h.missing, tool)
	}
}

// WithCallError makes every module call fail with err.
func WithCallError(err error) Option {
	return func(h *FakeHost) {
		h.callErr = err
	}
}

// NewFakeHost creates a fake host with HOME=/home/ci and PATH=/usr/bin:/bin.
func NewFakeHost(opts ...Option) *FakeHost {
	h := &FakeHost{
		platform: entities.Platform{OS: entities.OSLinux, Arch: entities.ArchX86_64},
		env: map[string]string{
			entities.EnvHome: "/home/ci",
			entities.EnvPath: "/usr/bin:/bin",
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// On answers commands containing match with res.
func (h *FakeHost) On(match string, res ports.CommandResult) *FakeHost {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rules = append(h.rules, rule{match: match, result: res})
	return h
}

// OnError makes commands containing match fail to start with err.
func (h *FakeHost) OnError(match string, err error) *FakeHost {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rules = append(h.rules, rule{match: match, err: err})
	return h
}

// Run implements ports.CommandRunner.
func (h *FakeHost) Run(_ context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, req)

	line := lineOf(req)
	if tool, ok := strings.CutPrefix(line, "command -v "); ok {
		tool, _, _ = strings.Cut(tool, " ")
		if slices.Contains(h.missing, tool) {
			return &ports.CommandResult{ExitCode: 1}, nil
		}
		return &ports.CommandResult{}, nil
	}

	for _, r := range h.rules {
		if strings.Contains(line, r.match) {
			if r.err != nil {
				return nil, r.err
			}
			res := r.result
			return &res, nil
		}
	}
	return &ports.CommandResult{}, nil
}

// Platform implements ports.Environment.
func (h *FakeHost) Platform(context.Context) (entities.Platform, error) {
	return h.platform, nil
}

// GetEnv implements ports.Environment.
func (h *FakeHost) GetEnv(_ context.Context, name string) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.env[name]
	return v, ok, nil
}

// SetEnvs implements ports.Environment.
func (h *FakeHost) SetEnvs(_ context.Context, vars []entities.EnvVar) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setEnvs = append(h.setEnvs, vars)
	for _, v := range vars {
		h.env[v.Name] = v.Value
	}
	return nil
}

// Call implements ports.ModuleCaller.
func (h *FakeHost) Call(_ context.Context, module, function string, args []string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, ModuleCall{Module: module, Function: function, Args: args})
	if h.callErr != nil {
		return "", h.callErr
	}
	return fmt.Sprintf("%s %s complete", module, function), nil
}

// Lines returns the recorded command lines, excluding tool checks.
func (h *FakeHost) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var lines []string
	for _, req := range h.requests {
		line := lineOf(req)
		if strings.HasPrefix(line, "command -v ") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Requests returns every recorded request, tool checks included.
func (h *FakeHost) Requests() []ports.CommandRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]ports.CommandRequest(nil), h.requests...)
}

// Calls returns the recorded module calls.
func (h *FakeHost) Calls() []ModuleCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]ModuleCall(nil), h.calls...)
}

// SetEnvCalls returns each SetEnvs batch in call order.
func (h *FakeHost) SetEnvCalls() [][]entities.EnvVar {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]entities.EnvVar(nil), h.setEnvs...)
}

// Env returns the current value of a variable.
func (h *FakeHost) Env(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.env[name]
}

func lineOf(req ports.CommandRequest) string {
	if req.Command == "sh" && len(req.Args) == 2 && req.Args[0] == "-c" {
		return req.Args[1]
	}
	return strings.Join(append([]string{req.Command}, req.Args...), " ")
}

// AssertSuccess asserts the result is a success.
func AssertSuccess(t *testing.T, r entities.Result) {
	t.Helper()
	if r.Status != entities.ResultStatusSuccess {
		t.Errorf("expected success, got %s: %v", r.Status, r.Error)
	}
}

// AssertFailure asserts the result is a failure.
func AssertFailure(t *testing.T, r entities.Result) {
	t.Helper()
	if r.Status != entities.ResultStatusFailure {
		t.Errorf("expected failure, got %s: %s", r.Status, r.Output)
	}
}

// AssertErrorType asserts the result carries an error of the given type.
func AssertErrorType(t *testing.T, r entities.Result, errType string) {
	t.Helper()
	if r.Error == nil {
		t.Errorf("expected error of type %q, got none", errType)
		return
	}
	if r.Error.Type != errType {
		t.Errorf("expected error type %q, got %q: %s", errType, r.Error.Type, r.Error.Message)
	}
}

// AssertLineContains asserts some recorded command line contains substr.
func AssertLineContains(t *testing.T, h *FakeHost, substr string) {
	t.Helper()
	for _, line := range h.Lines() {
		if strings.Contains(line, substr) {
			return
		}
	}
	t.Errorf("no command line contains %q; got:\n%s", substr, strings.Join(h.Lines(), "\n"))
}
