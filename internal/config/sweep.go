package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SweepConfig tunes the periodic maintenance sweeps. It can be overridden
// from a volume-mounted sweep.yml and hot-reloaded without a restart.
type SweepConfig struct {
	Interval             time.Duration `mapstructure:"interval"`
	JobTimeout           time.Duration `mapstructure:"jobTimeout"`
	DueDateJitterMaxDays int           `mapstructure:"dueDateJitterMaxDays"`
	LockTTL              time.Duration `mapstructure:"lockTTL"`
}

func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Interval:             time.Minute,
		JobTimeout:           30 * time.Second,
		DueDateJitterMaxDays: 30,
		LockTTL:              2 * time.Minute,
	}
}

func validateSweepConfig(cfg SweepConfig) error {
	if cfg.Interval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	if cfg.JobTimeout <= 0 {
		return errors.New("sweep job timeout must be positive")
	}
	if cfg.DueDateJitterMaxDays < 0 {
		return errors.New("due date jitter must not be negative")
	}
	return nil
}

// SweepConfigHolder serves the current sweep config and swaps it atomically
// on file change.
type SweepConfigHolder struct {
	current atomic.Value // holds SweepConfig
}

func NewSweepConfigHolder() (*SweepConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("sweep")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/renova/config")
	v.AddConfigPath("/etc/renova")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RENOVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSweepConfig()
	v.SetDefault("sweep.interval", defaults.Interval)
	v.SetDefault("sweep.jobTimeout", defaults.JobTimeout)
	v.SetDefault("sweep.dueDateJitterMaxDays", defaults.DueDateJitterMaxDays)
	v.SetDefault("sweep.lockTTL", defaults.LockTTL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg SweepConfig
	if err := v.UnmarshalKey("sweep", &cfg); err != nil {
		return nil, err
	}
	if err := validateSweepConfig(cfg); err != nil {
		return nil, err
	}

	holder := &SweepConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SweepConfig
		if err := v.UnmarshalKey("sweep", &updated); err != nil {
			log.Printf("[sweep-config] reload failed: %v", err)
			return
		}
		if err := validateSweepConfig(updated); err != nil {
			log.Printf("[sweep-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[sweep-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticSweepConfigHolder pins the holder to cfg with no file watch.
// Used in tests and by deployments without a config volume.
func NewStaticSweepConfigHolder(cfg SweepConfig) (*SweepConfigHolder, error) {
	if err := validateSweepConfig(cfg); err != nil {
		return nil, err
	}
	holder := &SweepConfigHolder{}
	holder.current.Store(cfg)
	return holder, nil
}

func (h *SweepConfigHolder) Get() SweepConfig {
	return h.current.Load().(SweepConfig)
}
