// Package server holds the configuration for the HTTP surface of lootdex:
// the listen port and the API key that protects every data endpoint.
package server
