package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SystemConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
}

type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Secret        string `yaml:"secret"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

type DatabaseConfig struct {
	// Type selects the store backend: memory, bolt or postgres.
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SystemConfig   `yaml:"system"`
	Web      WebConfig      `yaml:"web"`
	Database DatabaseConfig `yaml:"database"`
	Logger   LoggerConfig   `yaml:"logger"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Appid:    "candycommerce",
			Location: "Local",
			Workdir:  "/var/candycommerce",
		},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          1899,
			Secret:        "9b6de5cc-candy-1899-commerce-0e7a",
			AdminUsername: "jazzyjizzadmin",
			AdminPassword: "jazzyjizz1738",
		},
		Database: DatabaseConfig{
			Type:     "memory",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "candycommerce",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  100,
			IdleConn: 10,
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/candycommerce/candycommerce.log",
		},
	}
}

// LoadConfig reads the YAML config file over the defaults and then applies
// environment overrides. A missing file is not an error; defaults apply.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	setEnvStringValue("CANDY_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("CANDY_WEB_PORT", &cfg.Web.Port)
	setEnvStringValue("CANDY_WEB_SECRET", &cfg.Web.Secret)
	setEnvStringValue("CANDY_DB_TYPE", &cfg.Database.Type)
	setEnvStringValue("CANDY_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("CANDY_DB_PORT", &cfg.Database.Port)
	setEnvStringValue("CANDY_DB_NAME", &cfg.Database.Name)
	setEnvStringValue("CANDY_DB_USER", &cfg.Database.User)
	setEnvStringValue("CANDY_DB_PWD", &cfg.Database.Passwd)
	setEnvStringValue("CANDY_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvStringValue("CANDY_WORKDIR", &cfg.System.Workdir)
	return cfg, nil
}

func setEnvStringValue(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func setEnvIntValue(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		*dst = cast.ToInt(v)
	}
}
