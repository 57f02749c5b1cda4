// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout, stderr)
	}
	return nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		bins     map[string]bool
		cmds     map[string]bool
		wantName string
		wantErr  bool
	}{
		{"docker available", map[string]bool{"docker": true}, map[string]bool{"docker info": true}, "docker", false},
		{"podman fallback", map[string]bool{"podman": true}, map[string]bool{"podman info": true}, "podman", false},
		{"docker daemon down", map[string]bool{"docker": true, "podman": true}, map[string]bool{"podman info": true}, "podman", false},
		{"docker preferred", map[string]bool{"docker": true, "podman": true}, map[string]bool{"docker info": true, "podman info": true}, "docker", false},
		{"neither", nil, nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detect(context.Background(), &mockExecutor{availableBins: tt.bins, runnableCmds: tt.cmds})
			if tt.wantErr {
				assert.ErrorContains(t, err, "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	ctx := context.Background()
	e := &mockExecutor{runnableCmds: map[string]bool{
		"docker image inspect markitdown:latest": true,
		"podman image exists markitdown:latest":  true,
	}}

	assert.NoError(t, newDocker(e).ImageExists(ctx, "markitdown:latest"))
	assert.NoError(t, newPodman(e).ImageExists(ctx, "markitdown:latest"))
	assert.Error(t, newDocker(e).ImageExists(ctx, "other:latest"))
}

func TestRun(t *testing.T) {
	e := &mockExecutor{runPipedFunc: func(name string, args []string, stdin io.Reader, stdout, _ io.Writer) error {
		assert.Equal(t, "docker", name)
		assert.Equal(t, []string{"run", "--rm", "-i", "markitdown:latest"}, args)
		data, _ := io.ReadAll(stdin)
		_, err := stdout.Write([]byte("converted: " + string(data)))
		return err
	}}

	var out bytes.Buffer
	require.NoError(t, newDocker(e).Run(context.Background(), "markitdown:latest", strings.NewReader("pdf bytes"), &out))
	assert.Equal(t, "converted: pdf bytes", out.String())
}

func TestRunIncludesStderr(t *testing.T) {
	e := &mockExecutor{runPipedFunc: func(_ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
		stderr.Write([]byte("unsupported file\n"))
		return errors.New("exit status 1")
	}}

	err := newPodman(e).Run(context.Background(), "markitdown:latest", strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "unsupported file")
}
