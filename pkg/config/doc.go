// Package config provides configuration management for symc.
//
// Configuration is loaded from a YAML file, completed with defaults,
// overridden from the environment, and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("symc.yaml")
//
// An empty path starts from Default, so every command works without a
// configuration file.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SYMC_SECTION_FIELD.
// For example:
//
//   - SYMC_CACHE_DRIVER overrides cache.driver
//   - SYMC_TRANSFORM_PASSES overrides transform.passes (comma separated)
//   - SYMC_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Singleton Pattern
//
//	if err := config.Initialize("symc.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// ReloadConfig swaps in a new file and reports the changed sections, so a
// long-running command can tell output-affecting changes (parser, codegen,
// transform) from the rest.
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Example Configuration
//
//	parser:
//	  functions:
//	    Sin: sin
//	    Sqrt: sqrt
//	codegen:
//	  precedence_guard: true
//	  power_function: pow
//	transform:
//	  passes: [remove-minus-mult, remove-redundant-parenthesis]
//	cache:
//	  enabled: true
//	  driver: sqlite
//	  path: data/symc-cache.db
//	  retention:
//	    schedule: "0 3 * * *"
//	    max_age: 720h
//	telemetry:
//	  logging:
//	    level: debug
//	    format: json
//
// Validation errors include field paths:
//
//	configuration validation failed with 2 errors:
//	  - transform.passes[0]: unknown pass "fold"
//	  - cache.driver: invalid driver "pg"
package config
