package auto

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/born-ml/autotokenizer/internal/hub"
	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

// memFiles serves model files from memory, keyed by identifier and file name.
type memFiles struct {
	dir   string
	mu    sync.Mutex
	files map[string]string
	calls int
}

func newMemFiles(t *testing.T) *memFiles {
	t.Helper()
	return &memFiles{dir: t.TempDir(), files: make(map[string]string)}
}

func (m *memFiles) add(identifier, filename, content string) *memFiles {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[identifier+"|"+filename] = content
	return m
}

func (m *memFiles) Resolve(_ context.Context, identifier, filename string, _ hub.FetchOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	content, ok := m.files[identifier+"|"+filename]
	if !ok {
		return "", hub.ErrEntryNotFound
	}
	path := filepath.Join(m.dir, fmt.Sprintf("%d-%s", m.calls, filename))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// failingFiles fails the test when any file is requested.
type failingFiles struct{ t *testing.T }

func (f failingFiles) Resolve(_ context.Context, identifier, filename string, _ hub.FetchOptions) (string, error) {
	f.t.Errorf("unexpected file lookup: %s %s", identifier, filename)
	return "", hub.ErrEntryNotFound
}

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()

	reg, err := NewRegistry(opts...)
	require.NoError(t, err)
	return reg
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func skipWithoutBackend(t *testing.T) {
	t.Helper()
	if !tokenizer.FastBackendAvailable {
		t.Skip("accelerated backend not compiled in")
	}
}

// stubClass builds a class whose constructor records its options.
func stubClass(name string, kind Kind, got *LoadOptions) *Class {
	return &Class{
		Name: name,
		Kind: kind,
		New: func(_ context.Context, _ string, opts LoadOptions) (tokenizer.Tokenizer, error) {
			if got != nil {
				*got = opts
			}
			return tokenizer.NewWordPieceTokenizer(map[string]int32{"[UNK]": 0, "hi": 1}, true), nil
		},
	}
}
