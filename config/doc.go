// Package config loads restkit configuration from YAML files and the
// environment. It follows a fixed precedence: config file values are the
// base, then .env files, then process environment variables.
//
//	type AppConfig struct {
//	    Client rest.Config   `yaml:"client" mapstructure:"client"`
//	    Logging logger.Config `yaml:"logging" mapstructure:"logging"`
//	}
//
//	var cfg AppConfig
//	err := config.Load("my-service", &cfg)
package config
