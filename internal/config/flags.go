package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d local SQLite DSN (file path)
//	-remote-url remote document database base URL
//	-remote-write-timeout remote write deadline (e.g., "15s")
//	-auth-url auth provider base URL
//	-auth-api-key auth provider API key
//	-demo-limit free-tier per-collection record ceiling
//	-shutdown-timeout graceful shutdown deadline (e.g., "10s")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var localDSN string
	var remoteBaseURL string
	var remoteWriteTimeout time.Duration
	var authBaseURL string
	var authAPIKey string
	var demoLimit int
	var shutdownTimeout time.Duration
	var jsonConfigPath string

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&localDSN, "d", "", "Local SQLite DSN")
	flag.StringVar(&remoteBaseURL, "remote-url", "", "Remote document database base URL")
	flag.DurationVar(&remoteWriteTimeout, "remote-write-timeout", 0, "Remote write deadline (e.g., 15s)")
	flag.StringVar(&authBaseURL, "auth-url", "", "Auth provider base URL")
	flag.StringVar(&authAPIKey, "auth-api-key", "", "Auth provider API key")
	flag.IntVar(&demoLimit, "demo-limit", 0, "Free-tier per-collection record ceiling")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown deadline (e.g., 10s)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			DemoRecordLimit: demoLimit,
		},
		Storage: Storage{
			Local: LocalDB{
				DSN: localDSN,
			},
			Remote: RemoteStore{
				BaseURL:      remoteBaseURL,
				WriteTimeout: remoteWriteTimeout,
			},
		},
		Auth: Auth{
			BaseURL: authBaseURL,
			APIKey:  authAPIKey,
		},
		Server: Server{
			HTTPAddress:     serverAddress,
			ShutdownTimeout: shutdownTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}
