package govflow

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/govflow/policy"
)

//go:embed testdata/*
var embedFS embed.FS

func TestLoadConfig(t *testing.T) {
	t.Setenv("GOVFLOW_STORE", "/tmp/govflow/workflows")
	config, err := LoadConfig(context.Background(), "embed:///testdata/govflow.yaml", &embedFS)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, 64, config.Notifier.QueueBuffer)
	assert.Equal(t, StorageFS, config.Storage.Kind)
	assert.Equal(t, "/tmp/govflow/workflows", config.Storage.BaseURL)
	assert.Equal(t, "govflow", config.Tracing.ServiceName)

	hours, err := config.BusinessHours()
	require.NoError(t, err)
	assert.Equal(t, 8, hours.Start)
	assert.Equal(t, 18, hours.End)
	assert.Equal(t, time.UTC, hours.Location)

	p := policy.FromConfig(&config.Policy)
	assert.Equal(t, []string{"drop database"}, p.BlockList)
	assert.Equal(t, []string{"failover"}, p.RequireApproval)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		expect string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "start out of range", mutate: func(c *Config) { c.Governance.BusinessHoursStart = 24 }, expect: "governance.businessHoursStart"},
		{name: "end before start", mutate: func(c *Config) { c.Governance.BusinessHoursEnd = 9 }, expect: "governance.businessHoursEnd"},
		{name: "unknown zone", mutate: func(c *Config) { c.Governance.TimeZone = "Mars/Olympus" }, expect: "governance.timeZone"},
		{name: "empty buffer", mutate: func(c *Config) { c.Notifier.QueueBuffer = 0 }, expect: "notifier.queueBuffer"},
		{name: "fs without url", mutate: func(c *Config) { c.Storage.Kind = StorageFS }, expect: "storage.baseURL"},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Kind = "redis" }, expect: "storage.kind"},
		{name: "fs notifier without url", mutate: func(c *Config) { c.Notifier.Kind = StorageFS }, expect: "notifier.baseURL"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			if tc.expect == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expect)
		})
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("storage: [unclosed"))
	assert.Error(t, err)
	_, err = ParseConfig([]byte("storage:\n  kind: tape\n"))
	assert.Error(t, err)
}
