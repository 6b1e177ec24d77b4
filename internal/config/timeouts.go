package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the timing knobs of a run.
// These values can be customized via environment variables.
type Timeouts struct {
	TerraformOutput    time.Duration // Timeout for `terraform output -json`
	Playbook           time.Duration // Timeout per playbook run, 0 for none
	TunnelWaitAttempts int           // Readiness polls before the tunnel is declared dead
	TunnelWaitInterval time.Duration // Delay between readiness polls
	SSHMaxRetries      int           // SSH dial retries when opening the tunnel
	SSHRetryDelay      time.Duration // Initial delay between SSH dial retries
	Verify             time.Duration // Timeout for the post-install cluster check
	ObjectStorage      time.Duration // Timeout for bucket checks and uploads
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - KSPRAY_TIMEOUT_TERRAFORM (default: 2m)
//   - KSPRAY_TIMEOUT_PLAYBOOK (default: 0, no limit)
//   - KSPRAY_TUNNEL_WAIT_ATTEMPTS (default: 10)
//   - KSPRAY_TUNNEL_WAIT_INTERVAL (default: 1s)
//   - KSPRAY_SSH_MAX_RETRIES (default: 5)
//   - KSPRAY_SSH_RETRY_DELAY (default: 2s)
//   - KSPRAY_TIMEOUT_VERIFY (default: 1m)
//   - KSPRAY_TIMEOUT_OBJECT_STORAGE (default: 30s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		TerraformOutput:    parseDuration("KSPRAY_TIMEOUT_TERRAFORM", 2*time.Minute),
		Playbook:           parseDuration("KSPRAY_TIMEOUT_PLAYBOOK", 0),
		TunnelWaitAttempts: parseInt("KSPRAY_TUNNEL_WAIT_ATTEMPTS", 10),
		TunnelWaitInterval: parseDuration("KSPRAY_TUNNEL_WAIT_INTERVAL", 1*time.Second),
		SSHMaxRetries:      parseInt("KSPRAY_SSH_MAX_RETRIES", 5),
		SSHRetryDelay:      parseDuration("KSPRAY_SSH_RETRY_DELAY", 2*time.Second),
		Verify:             parseDuration("KSPRAY_TIMEOUT_VERIFY", 1*time.Minute),
		ObjectStorage:      parseDuration("KSPRAY_TIMEOUT_OBJECT_STORAGE", 30*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}

	return i
}
