// Package config loads the plycloud CLI defaults from JSON or YAML.
package config
