package tasks

import "time"

const (
	defaultWorkers         = 2
	defaultReleaseAfter    = 15 * time.Minute
	defaultCleanupInterval = time.Hour
)

// Config tunes the backlite workers.
type Config struct {
	Workers int

	// Tasks claimed longer than this are handed to another worker.
	ReleaseAfter time.Duration

	// How often completed tasks are purged.
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         defaultWorkers,
		ReleaseAfter:    defaultReleaseAfter,
		CleanupInterval: defaultCleanupInterval,
	}
}

// withDefaults fills zero fields, so a partially set Config from flags or env still works.
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = defaultReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaultCleanupInterval
	}
	return c
}
