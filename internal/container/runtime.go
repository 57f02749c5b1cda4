// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs one-shot conversion images under docker or podman.
// Input is piped to the container's stdin and its stdout is captured, so no
// host paths are mounted.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime provides the container operations the extractors need.
type Runtime interface {
	// Name returns the runtime binary ("docker" or "podman").
	Name() string

	// Available reports whether the binary is on PATH and its daemon answers.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts image with --rm -i, piping stdin in and stdout out.
	// Container stderr is folded into the returned error.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// cli implements Runtime for one container binary. Docker and Podman differ
// only in binary name and the subcommand that checks for an image.
type cli struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (c *cli) Name() string { return c.bin }

func (c *cli) Available(ctx context.Context) bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	return c.exec.RunSilent(ctx, c.bin, "info") == nil
}

func (c *cli) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, c.imageCheckCmd...), image)
	if err := c.exec.RunSilent(ctx, c.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, c.bin, err)
	}
	return nil
}

func (c *cli) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	args := []string{"run", "--rm", "-i", image}
	if err := c.exec.RunPiped(ctx, c.bin, args, stdin, stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s container %s: %w: %s", c.bin, image, err, msg)
		}
		return fmt.Errorf("running %s container %s: %w", c.bin, image, err)
	}
	return nil
}

func newDocker(e executor) *cli {
	return &cli{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: e}
}

func newPodman(e executor) *cli {
	return &cli{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: e}
}

var defaultExec executor = &osExecutor{}

// Detect tries docker first and falls back to podman.
func Detect(ctx context.Context) (Runtime, error) {
	return detect(ctx, defaultExec)
}

func detect(ctx context.Context, e executor) (Runtime, error) {
	for _, rt := range []*cli{newDocker(e), newPodman(e)} {
		if rt.Available(ctx) {
			return rt, nil
		}
	}
	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
