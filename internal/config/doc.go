// Package config defines the run configuration of kspray.
//
// The [Config] struct is read once from kspray.yaml (or built from defaults
// when no file exists), completed by [Config.ApplyDefaults] and checked by
// [Config.Validate]. Every stage receives the parts it needs explicitly; no
// stage reads global settings. Timing knobs that operators tune per
// environment live in [Timeouts] and come from KSPRAY_* variables.
package config
