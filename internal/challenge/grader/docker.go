package grader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// DockerRunner executes candidate code in a throwaway container with no
// network, a memory cap, and a pids limit. Each Run is one container: create,
// feed stdin, wait, collect stdout, remove.
type DockerRunner struct {
	docker   *client.Client
	image    string
	memoryMB int64
}

// NewDockerRunner connects to the Docker daemon at host (empty means the
// environment default) and ensures the runner image is present.
func NewDockerRunner(ctx context.Context, host, image string, memoryMB int64) (*DockerRunner, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	} else {
		opts = append(opts, client.FromEnv)
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	r := &DockerRunner{docker: cli, image: image, memoryMB: memoryMB}
	if err := r.pullImage(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DockerRunner) pullImage(ctx context.Context) error {
	if _, _, err := r.docker.ImageInspectWithRaw(ctx, r.image); err == nil {
		return nil
	}
	out, err := r.docker.ImagePull(ctx, r.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull runner image %s: %w", r.image, err)
	}
	defer out.Close()
	_, _ = io.Copy(io.Discard, out)
	return nil
}

// Run executes code once with input on stdin. Program failures (non-zero
// exit, wall-clock timeout) come back wrapped in ErrExecution so the grader
// treats them as failed cases; anything else is an infrastructure fault.
func (r *DockerRunner) Run(ctx context.Context, code, input string) (string, error) {
	pidsLimit := int64(64)
	containerConfig := &container.Config{
		Image:           r.image,
		Cmd:             []string{"python3", "-c", code},
		OpenStdin:       true,
		StdinOnce:       true,
		AttachStdin:     true,
		AttachStdout:    true,
		AttachStderr:    true,
		NetworkDisabled: true,
	}
	hostConfig := &container.HostConfig{
		NetworkMode: "none",
		AutoRemove:  false,
		Resources: container.Resources{
			Memory:    r.memoryMB * 1024 * 1024,
			PidsLimit: &pidsLimit,
		},
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyDisabled},
	}

	created, err := r.docker.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("create runner container: %w", err)
	}
	defer func() {
		removeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = r.docker.ContainerRemove(removeCtx, created.ID, container.RemoveOptions{Force: true})
	}()

	attach, err := r.docker.ContainerAttach(ctx, created.ID, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("attach runner container: %w", err)
	}
	defer attach.Close()

	if err := r.docker.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("start runner container: %w", err)
	}

	if _, err := attach.Conn.Write([]byte(input)); err != nil {
		return "", fmt.Errorf("write stdin: %w", err)
	}
	_ = attach.CloseWrite()

	statusCh, errCh := r.docker.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return "", fmt.Errorf("wait runner container: %w", err)
	case <-ctx.Done():
		// Per-case timeout hit: the program ran too long, not the sandbox.
		return "", fmt.Errorf("%w: time limit exceeded", ErrExecution)
	case status := <-statusCh:
		stdout, stderr, err := r.collectLogs(created.ID)
		if err != nil {
			return "", err
		}
		if status.StatusCode != 0 {
			return stdout, fmt.Errorf("%w: exit code %d: %s", ErrExecution, status.StatusCode, firstLine(stderr))
		}
		return stdout, nil
	}
}

func (r *DockerRunner) collectLogs(containerID string) (string, string, error) {
	logCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs, err := r.docker.ContainerLogs(logCtx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return "", "", fmt.Errorf("collect runner logs: %w", err)
	}
	defer logs.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil {
		return "", "", fmt.Errorf("demux runner logs: %w", err)
	}
	return stdout.String(), stderr.String(), nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

func (r *DockerRunner) Close() error {
	return r.docker.Close()
}
