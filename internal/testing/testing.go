// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/tasks"
)

// MockEngine is a test double for [tasks.ResolveEngine]
type MockEngine struct {
	ResolveResult *models.ResolutionResult
	ResolveErr    error
	ChannelResult *models.ChannelExport
	ChannelErr    error
	Updates       []tasks.ProgressUpdate

	mu         sync.Mutex
	inputs     [][]string
	channels   []string
	cancelWait bool
}

// NewBlockingEngine returns a [MockEngine] whose calls block until their
// context is cancelled.
func NewBlockingEngine() *MockEngine {
	return &MockEngine{cancelWait: true}
}

func (m *MockEngine) Resolve(ctx context.Context, progress chan<- tasks.ProgressUpdate, inputs []string) (*models.ResolutionResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, inputs)
	m.mu.Unlock()

	for _, u := range m.Updates {
		select {
		case progress <- u:
		default:
		}
	}
	if m.cancelWait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.ResolveResult, m.ResolveErr
}

func (m *MockEngine) ResolveChannel(ctx context.Context, progress chan<- tasks.ProgressUpdate, channel string, opts tasks.ChannelOpts) (*models.ChannelExport, error) {
	m.mu.Lock()
	m.channels = append(m.channels, channel)
	m.mu.Unlock()

	if m.cancelWait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.ChannelResult, m.ChannelErr
}

// ResolveCalls returns the input lists passed to Resolve so far.
func (m *MockEngine) ResolveCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.inputs...)
}

// ChannelCalls returns the channel references passed to ResolveChannel so far.
func (m *MockEngine) ChannelCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.channels...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
