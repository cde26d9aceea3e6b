// Package config loads runtime settings for the what-if service.
//
// Settings come from three layers, later layers winning:
//
//  1. Defaults (Default)
//  2. An optional YAML file
//  3. Environment variables, including those from a .env file in the
//     working directory
//
// Recognized environment variables:
//
//	WHATIF_DB_PATH     storage.path
//	WHATIF_ORACLE      oracle.type (sat, remote, mock)
//	WHATIF_ORACLE_URL  oracle.url
//	GEMINI_API_KEY     explain.api_key
//	WHATIF_LOG_LEVEL   logging.level
//	WHATIF_ADDR        server.addr
//
// Load validates the merged result with go-playground/validator tags.
package config
