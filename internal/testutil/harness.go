package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuel-clarke/ddsp/internal/app"
	"github.com/samuel-clarke/ddsp/internal/gin"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a startup test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Dir       string
}

// StartApp provides a standardized harness for exercising the full
// startup path: it writes the given gin files into a temp directory,
// then constructs the app (load, merge, register, validate). A startup
// panic is recovered into HarnessResult.Err.
func StartApp(t *testing.T, files map[string]string, overrides ...string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	ginFiles := make([]string, 0, len(files))
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
		if filepath.Ext(name) == ".gin" {
			ginFiles = append(ginFiles, filePath)
		}
	}

	appConfig := &app.Config{
		Mode:      "train",
		SaveDir:   filepath.Join(tmpDir, "save"),
		GinFiles:  ginFiles,
		GinParams: overrides,
		LogLevel:  "debug",
		LogFormat: "text",
		EngineBin: "ddsp-engine",
	}

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, gin.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			Dir:       tmpDir,
		}
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		App:       testApp,
		Dir:       tmpDir,
	}
}
