package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		DemoRecordLimit int    `json:"demo_record_limit"`
		Version         string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`

		Remote struct {
			BaseURL      string   `json:"base_url"`
			WriteTimeout Duration `json:"write_timeout"`
		} `json:"remote,omitempty"`
	} `json:"storage,omitempty"`

	Auth struct {
		BaseURL string `json:"base_url"`
		APIKey  string `json:"api_key"`
	} `json:"auth,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DemoRecordLimit: jsonCfg.App.DemoRecordLimit,
			Version:         jsonCfg.App.Version,
		},
		Storage: Storage{
			Local: LocalDB{
				DSN: jsonCfg.Storage.Local.DSN,
			},
			Remote: RemoteStore{
				BaseURL:      jsonCfg.Storage.Remote.BaseURL,
				WriteTimeout: time.Duration(jsonCfg.Storage.Remote.WriteTimeout),
			},
		},
		Auth: Auth{
			BaseURL: jsonCfg.Auth.BaseURL,
			APIKey:  jsonCfg.Auth.APIKey,
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
