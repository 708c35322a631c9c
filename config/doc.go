// Package config loads configuration structs from a YAML file, a .env file
// and the process environment using Viper.
//
// Values are layered: the YAML file first, then environment variables, which
// win. Environment keys map onto nested keys by splitting on underscores, so
// with prefix OKREQ the variable OKREQ_CLIENT_BASE_URL sets client.base_url.
//
//	var cfg Settings
//	err := config.LoadConfig("okreq", &cfg, config.WithEnvPrefix("OKREQ"))
package config
