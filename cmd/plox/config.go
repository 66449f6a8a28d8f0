package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigName = ".plox.yaml"

type config struct {
	LogLevel    string `yaml:"log_level"`
	Color       bool   `yaml:"color"`
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

func defaultConfig() config {
	return config{
		LogLevel:    "warn",
		Color:       true,
		Prompt:      "> ",
		HistoryFile: "~/.plox_history",
	}
}

// loadConfig reads path over the defaults. An empty path means
// $HOME/.plox.yaml, which is optional.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	optional := path == ""
	if optional {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, defaultConfigName)
	}

	file, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, err
	}
	return cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
