// Package config handles configuration loading for the council client.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion. The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from COUNCIL_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/council/client.yaml
//  3. ~/.config/council/client.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	server:
//	  token: "${COUNCIL_TOKEN}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  base_url: "http://localhost:8001/api"
//	  token: "${COUNCIL_TOKEN}"
//	  timeout: "30s"
//
// Council settings:
//
//	council:
//	  default_personas: ["skeptic", "visionary", "pragmatist"]
//	  presets_path: "~/.config/council/personas.toml"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
