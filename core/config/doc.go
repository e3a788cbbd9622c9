// Package config loads application configuration from environment variables
// and an optional .env file via Viper.
//
// Defaults are declared next to the fields they belong to through `default`
// struct tags on the partial configs (server, storage, log, corpus) and
// registered by reflection, so every key is overridable through the
// environment (SERVER_PORT, STORAGE_BUCKET, CORPUS_PREFIX, ...).
package config
