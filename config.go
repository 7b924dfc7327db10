package govflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/govflow/internal/env"
	"github.com/viant/govflow/policy"
	"github.com/viant/govflow/service/governance/risk"
	"gopkg.in/yaml.v3"
)

// Storage and notifier queue kinds.
const (
	StorageMemory = "memory"
	StorageFS     = "fs"
)

// Config is a serialisable representation of the service configuration.
// The zero value of a section falls back to DefaultConfig.
type Config struct {
	Log        LogConfig        `json:"log" yaml:"log"`
	Governance GovernanceConfig `json:"governance" yaml:"governance"`
	Notifier   NotifierConfig   `json:"notifier" yaml:"notifier"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Audit      AuditConfig      `json:"audit" yaml:"audit"`
	Tracing    TracingConfig    `json:"tracing" yaml:"tracing"`
	Policy     policy.Config    `json:"policy" yaml:"policy"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// GovernanceConfig defines the business-hours window used in risk scoring.
type GovernanceConfig struct {
	BusinessHoursStart int    `json:"businessHoursStart" yaml:"businessHoursStart"`
	BusinessHoursEnd   int    `json:"businessHoursEnd" yaml:"businessHoursEnd"`
	TimeZone           string `json:"timeZone" yaml:"timeZone"`
}

// NotifierConfig selects the notification queue. The memory queue drops
// events when QueueBuffer is exhausted; the fs queue persists them under
// BaseURL until the listener delivers them.
type NotifierConfig struct {
	Kind        string `json:"kind" yaml:"kind"`
	QueueBuffer int    `json:"queueBuffer" yaml:"queueBuffer"`
	BaseURL     string `json:"baseURL" yaml:"baseURL"`
}

type StorageConfig struct {
	Kind    string `json:"kind" yaml:"kind"`
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

type AuditConfig struct {
	ExportURL string `json:"exportURL" yaml:"exportURL"`
}

type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	OutputFile  string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "INFO"},
		Governance: GovernanceConfig{
			BusinessHoursStart: 9,
			BusinessHoursEnd:   17,
			TimeZone:           "Local",
		},
		Notifier: NotifierConfig{Kind: StorageMemory, QueueBuffer: 256},
		Storage:  StorageConfig{Kind: StorageMemory},
		Tracing:  TracingConfig{ServiceName: "govflow"},
	}
}

// Validate returns an aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var problems []string
	g := c.Governance
	if g.BusinessHoursStart < 0 || g.BusinessHoursStart > 23 {
		problems = append(problems, "governance.businessHoursStart must be within [0,23]")
	}
	if g.BusinessHoursEnd < 1 || g.BusinessHoursEnd > 24 || g.BusinessHoursEnd <= g.BusinessHoursStart {
		problems = append(problems, "governance.businessHoursEnd must be within (businessHoursStart,24]")
	}
	if _, err := c.location(); err != nil {
		problems = append(problems, fmt.Sprintf("governance.timeZone: %v", err))
	}
	if c.Notifier.QueueBuffer <= 0 {
		problems = append(problems, "notifier.queueBuffer must be > 0")
	}
	problems = append(problems, validateKind("notifier", c.Notifier.Kind, c.Notifier.BaseURL)...)
	problems = append(problems, validateKind("storage", c.Storage.Kind, c.Storage.BaseURL)...)
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validateKind(section, kind, baseURL string) []string {
	switch kind {
	case StorageMemory:
		return nil
	case StorageFS:
		if baseURL == "" {
			return []string{section + ".baseURL is required for fs " + section}
		}
		return nil
	}
	return []string{fmt.Sprintf("%s.kind must be %s or %s, got %q", section, StorageMemory, StorageFS, kind)}
}

// BusinessHours returns the configured business-hours window.
func (c *Config) BusinessHours() (risk.BusinessHours, error) {
	location, err := c.location()
	if err != nil {
		return risk.BusinessHours{}, err
	}
	return risk.BusinessHours{
		Start:    c.Governance.BusinessHoursStart,
		End:      c.Governance.BusinessHoursEnd,
		Location: location,
	}, nil
}

func (c *Config) location() (*time.Location, error) {
	switch c.Governance.TimeZone {
	case "", "Local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Governance.TimeZone)
}

// LoadConfig reads a YAML config from any afs-supported URL. ${env.KEY}
// references are expanded and unset sections keep their defaults.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download config %s", URL)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	ret := DefaultConfig()
	if err := yaml.Unmarshal([]byte(env.Expand(string(data))), ret); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
