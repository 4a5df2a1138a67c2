// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor answers LookPath and RunSilent from fixed sets and records
// the last piped invocation.
type fakeExecutor struct {
	onPath map[string]bool
	ok     map[string]bool // "bin arg1 arg2" commands that succeed
	pipe   func(ctx context.Context, stdin io.Reader, stdout io.Writer) error

	silent  []string
	pipeCtx context.Context
	pipeBin string
	pipeArg []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (f *fakeExecutor) RunSilent(name string, args ...string) error {
	key := strings.Join(append([]string{name}, args...), " ")
	f.silent = append(f.silent, key)
	if f.ok[key] {
		return nil
	}
	return errors.New("exit status 1")
}

func (f *fakeExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.pipeCtx, f.pipeBin, f.pipeArg = ctx, name, args
	if f.pipe != nil {
		return f.pipe(ctx, stdin, stdout)
	}
	return nil
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name   string
		onPath map[string]bool
		ok     map[string]bool
		want   string
	}{
		{"docker", set("docker"), set("docker info"), "docker"},
		{"podman only", set("podman"), set("podman info"), "podman"},
		{"docker daemon down", set("docker", "podman"), set("podman info"), "podman"},
		{"docker preferred", set("docker", "podman"), set("docker info", "podman info"), "docker"},
		{"none", set(), set(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(&fakeExecutor{onPath: tt.onPath, ok: tt.ok})
			if tt.want == "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt.Name())
		})
	}
}

func TestImageExists_Subcommand(t *testing.T) {
	const image = "minidocks/poppler:latest"

	docker := &fakeExecutor{ok: set("docker image inspect " + image)}
	require.NoError(t, newDockerRuntime(docker).ImageExists(image))
	assert.Equal(t, []string{"docker image inspect " + image}, docker.silent)

	podman := &fakeExecutor{ok: set("podman image exists " + image)}
	require.NoError(t, newPodmanRuntime(podman).ImageExists(image))
	assert.Equal(t, []string{"podman image exists " + image}, podman.silent)

	err := newDockerRuntime(&fakeExecutor{}).ImageExists(image)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image minidocks/poppler:latest not found in docker")
}

type ctxKey struct{}

func TestRun_IsolatedOneShotContainer(t *testing.T) {
	fe := &fakeExecutor{
		pipe: func(_ context.Context, stdin io.Reader, stdout io.Writer) error {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return err
			}
			_, err = stdout.Write(bytes.ToUpper(data))
			return err
		},
	}
	ctx := context.WithValue(context.Background(), ctxKey{}, "extract")

	var out bytes.Buffer
	err := newPodmanRuntime(fe).Run(ctx, "poppler:24", []string{"pdftotext", "-enc", "UTF-8", "-", "-"}, strings.NewReader("livre premier"), &out)
	require.NoError(t, err)

	assert.Equal(t, "LIVRE PREMIER", out.String())
	assert.Equal(t, "podman", fe.pipeBin)
	assert.Equal(t,
		[]string{"run", "--rm", "-i", "--network", "none", "poppler:24", "pdftotext", "-enc", "UTF-8", "-", "-"},
		fe.pipeArg)
	assert.Equal(t, "extract", fe.pipeCtx.Value(ctxKey{}))
}

func TestRun_WrapsFailure(t *testing.T) {
	cause := errors.New("exit status 1: Syntax Error: Couldn't find trailer dictionary")
	fe := &fakeExecutor{pipe: func(context.Context, io.Reader, io.Writer) error { return cause }}

	err := newDockerRuntime(fe).Run(context.Background(), "poppler:24", nil, strings.NewReader(""), io.Discard)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "running docker container poppler:24")
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not on PATH")
	}
}

func TestOSExecutor_RunPiped(t *testing.T) {
	requireShell(t)
	o := &osExecutor{}

	t.Run("pipes stdin to stdout", func(t *testing.T) {
		var out bytes.Buffer
		err := o.RunPiped(context.Background(), "sh", []string{"-c", "cat"}, strings.NewReader("TITRE PREMIER\n"), &out)
		require.NoError(t, err)
		assert.Equal(t, "TITRE PREMIER\n", out.String())
	})

	t.Run("stderr folded into error", func(t *testing.T) {
		err := o.RunPiped(context.Background(), "sh", []string{"-c", "echo 'bad xref table' >&2; exit 3"}, strings.NewReader(""), io.Discard)
		require.Error(t, err)
		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.ExitCode())
		assert.Contains(t, err.Error(), ": bad xref table")
	})

	t.Run("silent failure keeps exit error", func(t *testing.T) {
		err := o.RunPiped(context.Background(), "sh", []string{"-c", "exit 2"}, strings.NewReader(""), io.Discard)
		require.Error(t, err)
		assert.Equal(t, "exit status 2", err.Error())
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := o.RunPiped(ctx, "sh", []string{"-c", "sleep 5"}, strings.NewReader(""), io.Discard)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
