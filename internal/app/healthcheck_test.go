package app

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestHealthcheckServer_StartAndShutdown(t *testing.T) {
	a := &App{logger: newLogger("debug", "text", false, &bytes.Buffer{})}
	port := freePort(t)

	a.startHealthcheckServer(port)
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)

	var resp *http.Response
	var err error
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err, "health endpoint never came up")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	require.NoError(t, a.closeHealthcheckServer())

	// The listener is gone after shutdown.
	_, err = http.Get(url)
	assert.Error(t, err)
}

func TestCloseHealthcheckServer_NotRunning(t *testing.T) {
	a := &App{logger: newLogger("debug", "text", false, &bytes.Buffer{})}
	assert.NoError(t, a.closeHealthcheckServer())
}
