package diagram

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/style"
)

type fakeSink struct {
	dir        string
	images     []string
	alts       []string
	paragraphs [][]model.Run
	insertErr  error
}

func (s *fakeSink) ImagePath(name string) (string, error) {
	return filepath.Join(s.dir, name), nil
}

func (s *fakeSink) InsertImage(path, alt string) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.images = append(s.images, path)
	s.alts = append(s.alts, alt)
	return nil
}

func (s *fakeSink) AddParagraph(runs []model.Run) {
	s.paragraphs = append(s.paragraphs, runs)
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f runFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func fakeCommand(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mmdc")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755))
	return p
}

func mmdFiles(t *testing.T, dir string) []string {
	t.Helper()
	m, err := filepath.Glob(filepath.Join(dir, "*.mmd"))
	require.NoError(t, err)
	return m
}

func newTestRenderer(t *testing.T) *Renderer {
	r := NewRenderer(style.Builtin().Diagram)
	r.TempDir = t.TempDir()
	r.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return r
}

func TestRenderSuccess(t *testing.T) {
	r := newTestRenderer(t)
	r.Command = fakeCommand(t)

	var gotArgs []string
	r.Runner = runFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		_, err := os.Stat(argValue(args, "-i"))
		require.NoError(t, err, "source exists while rendering")
		return nil, os.WriteFile(argValue(args, "-o"), []byte("\x89PNG"), 0o644)
	})

	sink := &fakeSink{dir: t.TempDir()}
	res := r.Render(context.Background(), "graph TD\n  A[1. 立案] --> B", sink)

	require.True(t, res.Rendered, "err: %v", res.Err)
	assert.Equal(t, KindFlow, res.Spec.Kind)
	assert.Equal(t, filepath.Join(sink.dir, "mermaid-chart-1700000000000.png"), res.ImagePath)
	assert.Equal(t, []string{res.ImagePath}, sink.images)
	assert.Equal(t, []string{"Mermaid 流程图"}, sink.alts)
	assert.Empty(t, sink.paragraphs)
	assert.Empty(t, mmdFiles(t, r.TempDir))

	assert.Equal(t, "neutral", argValue(gotArgs, "-t"))
	assert.Equal(t, "2200", argValue(gotArgs, "-w"))
	assert.Equal(t, "1500", argValue(gotArgs, "-H"))
	assert.Equal(t, "2.0", argValue(gotArgs, "--scale"))
	assert.Empty(t, argValue(gotArgs, "-c"))
}

func TestRenderSkipsTakenNames(t *testing.T) {
	r := newTestRenderer(t)
	r.Command = fakeCommand(t)
	r.Runner = runFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, os.WriteFile(argValue(args, "-o"), []byte("png"), 0o644)
	})

	sink := &fakeSink{dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(sink.dir, "mermaid-chart-1700000000000.png"), nil, 0o644))

	res := r.Render(context.Background(), "pie\n\"a\": 1", sink)
	require.True(t, res.Rendered)
	assert.Equal(t, filepath.Join(sink.dir, "mermaid-chart-1700000000001.png"), res.ImagePath)
}

func TestRenderRendererMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv(EnvCommand, "")

	r := newTestRenderer(t)
	r.Command = filepath.Join(t.TempDir(), "missing-mmdc")
	r.Runner = runFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("runner must not be called")
		return nil, nil
	})

	sink := &fakeSink{dir: t.TempDir()}
	res := r.Render(context.Background(), "%%% ??? garbled <<<", sink)

	assert.False(t, res.Rendered)
	assert.True(t, errors.Is(res.Err, ErrRendererNotFound))
	require.Len(t, sink.paragraphs, 1)
	assert.Equal(t, "【图表内容】", sink.paragraphs[0][0].Text)
	assert.Empty(t, sink.images)
	assert.Empty(t, mmdFiles(t, r.TempDir))
}

func TestRenderFailures(t *testing.T) {
	tests := []struct {
		name    string
		run     runFunc
		timeout time.Duration
		want    error
	}{
		{
			name: "non-zero exit",
			run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
				return []byte("Parse error on line 2"), errors.New("exit status 1")
			},
			want: ErrRenderFailed,
		},
		{
			name: "no output file",
			run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
				return nil, nil
			},
			want: ErrNoOutput,
		},
		{
			name:    "timeout",
			timeout: 10 * time.Millisecond,
			run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			want: ErrRenderTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t)
			r.Command = fakeCommand(t)
			r.Runner = tt.run
			if tt.timeout > 0 {
				r.Timeout = tt.timeout
			}

			sink := &fakeSink{dir: t.TempDir()}
			res := r.Render(context.Background(), "gantt\nsection 一\n任务 :a, 1d", sink)

			assert.False(t, res.Rendered)
			assert.True(t, errors.Is(res.Err, tt.want), "got %v", res.Err)
			require.Len(t, sink.paragraphs, 1)
			assert.Equal(t, "【时间安排】", sink.paragraphs[0][0].Text)
			assert.Empty(t, mmdFiles(t, r.TempDir))
		})
	}
}

func TestRenderInsertFailureFallsBack(t *testing.T) {
	r := newTestRenderer(t)
	r.Command = fakeCommand(t)
	r.Runner = runFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, os.WriteFile(argValue(args, "-o"), []byte("png"), 0o644)
	})

	sink := &fakeSink{dir: t.TempDir(), insertErr: errors.New("bad image")}
	res := r.Render(context.Background(), "graph LR\nA-->B", sink)
	assert.False(t, res.Rendered)
	require.Len(t, sink.paragraphs, 1)
}

func TestResolveCommandFromEnv(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cmd := fakeCommand(t)
	t.Setenv(EnvCommand, cmd)

	got, err := (&Renderer{}).ResolveCommand()
	require.NoError(t, err)
	assert.Equal(t, cmd, got)
}

func TestConfigFileArg(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "mermaid-config.json")
	require.NoError(t, os.WriteFile(cfg, []byte("{}"), 0o644))

	r := (&Renderer{ConfigFile: cfg}).withDefaults()
	assert.Equal(t, cfg, argValue(r.args("in.mmd", "out.png"), "-c"))

	r.ConfigFile = cfg + ".missing"
	assert.Empty(t, argValue(r.args("in.mmd", "out.png"), "-c"))
}

func TestFormatScale(t *testing.T) {
	assert.Equal(t, "2.0", formatScale(2))
	assert.Equal(t, "1.25", formatScale(1.25))
}

func TestRenderLeavesRendererUnchanged(t *testing.T) {
	var calls atomic.Int32
	r := &Renderer{
		Command: fakeCommand(t),
		TempDir: t.TempDir(),
		Runner: runFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			calls.Add(1)
			assert.Equal(t, "neutral", argValue(args, "-t"))
			return nil, os.WriteFile(argValue(args, "-o"), []byte("png"), 0o644)
		}),
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Render(context.Background(), "graph TD\n  A --> B", &fakeSink{dir: t.TempDir()})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(4), calls.Load())
	assert.Empty(t, r.Theme)
	assert.Zero(t, r.Width)
	assert.Zero(t, r.Timeout)
	assert.Nil(t, r.now)
}
