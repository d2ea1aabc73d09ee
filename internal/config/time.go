package config

import "time"

const (
	DefaultBatchSize  = 100000
	DefaultExportName = "IP_THREAT_DB"

	defaultDenylistTimeout  = 30 * time.Second
	defaultDenylistCacheTTL = 24 * time.Hour
)

// CalculateDuration converts a timer into a duration. A zero timer yields zero.
func CalculateDuration(timer Timer) time.Duration {
	return time.Duration(CalculateMillisecondsOfPeriod(timer)) * time.Millisecond
}

func CalculateMillisecondsOfPeriod(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}

func (c Config) DenylistTimeout() time.Duration {
	if d := CalculateDuration(c.Denylist.Timeout); d > 0 {
		return d
	}
	return defaultDenylistTimeout
}

func (c Config) DenylistCacheTTL() time.Duration {
	if d := CalculateDuration(c.Denylist.CacheTTL); d > 0 {
		return d
	}
	return defaultDenylistCacheTTL
}
