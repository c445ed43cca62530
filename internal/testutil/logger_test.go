package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCaptureLogger(t *testing.T) {
	logger, buf := NewCaptureLogger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Debug("worker", "n", i)
		}(i)
	}
	wg.Wait()

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=worker")
	assert.Contains(t, out, "n=7")
}

func TestWriteStubs(t *testing.T) {
	dir := t.TempDir()

	paths := WriteStubs(t, dir, map[string]string{
		"b.pyi":     "x = ...  # type: int\n",
		"pkg/a.pyi": "y = ...  # type: str\n",
	})

	require.Equal(t, []string{filepath.Join(dir, "b.pyi"), filepath.Join(dir, "pkg", "a.pyi")}, paths)
	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "y = ...  # type: str\n", string(data))
}
