package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"remora/emu/log"
)

type Config struct {
	Debug DebugConfig `toml:"debug"`
}

type DebugConfig struct {
	Port    int `toml:"port"`
	RPCPort int `toml:"rpc_port"`
}

const defaultPort = 1234

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("remora")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the remora config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		return Config{Debug: DebugConfig{Port: defaultPort}}
	}
	if cfg.Debug.Port == 0 {
		cfg.Debug.Port = defaultPort
	}
	return cfg
}

// SaveConfig into remora config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
