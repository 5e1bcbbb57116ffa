package config

import (
	"encoding/json"
	"os"

	"github.com/mbriard/carnets/internal/flagx"
)

// JsonConfig is the intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct. Absent fields keep their current values.
type JsonConfig struct {
	EndpointAddrHTTP *string `json:"endpoint_addr_http"`
	DatabaseDSN      *string `json:"database_dsn"`
	SecretKey        *string `json:"secret_key"`
	S3RootUser       *string `json:"s3_root_user"`
	S3RootPassword   *string `json:"s3_root_password"`
	S3Bucket         *string `json:"s3_bucket"`
	S3Region         *string `json:"s3_region"`
	S3BaseEndpoint   *string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or invalid
// file panics, matching flag-parsing behavior.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.S3RootUser != nil {
		config.S3RootUser = *c.S3RootUser
	}
	if c.S3RootPassword != nil {
		config.S3RootPassword = *c.S3RootPassword
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		config.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
}
