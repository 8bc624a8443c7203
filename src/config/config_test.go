package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"threadsched/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	c := config.DefaultServerConfig()

	assert.Equal(t, "localhost:8000", c.Addr)
	assert.Equal(t, "wfq", c.QueuePolicy)
	assert.NoError(t, c.Validate())
}

func TestServerConfig_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.conf")
	require.NoError(t, os.WriteFile(path, []byte(`
# simulation service
addr 0.0.0.0:9000
httpAddr :8080
queuePolicy sp
queueSize 16
logLevel debug
`), 0o644))

	c := config.DefaultServerConfig()
	require.NoError(t, c.ReadFile(path))

	assert.Equal(t, "0.0.0.0:9000", c.Addr)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "sp", c.QueuePolicy)
	assert.Equal(t, 16, c.QueueSize)
	assert.Equal(t, "debug", c.LogLevel)
	// untouched
	assert.Equal(t, "text", c.LogFormat)
}

func TestServerConfig_ReadErrors(t *testing.T) {
	for _, input := range []string{
		"queueSize many\n",
		"colour blue\n",
		"addr\n",
	} {
		c := config.DefaultServerConfig()
		assert.Error(t, c.Read(strings.NewReader(input)), input)
	}
}

func TestServerConfig_Validate(t *testing.T) {
	c := config.DefaultServerConfig()
	c.QueuePolicy = "lifo"
	assert.Error(t, c.Validate())

	c = config.DefaultServerConfig()
	c.QueueSize = 0
	assert.Error(t, c.Validate())
}
