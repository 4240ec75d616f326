// Package config deserializes the YAML documents describing a sensor
// (the top-level document, its per-device register/function side
// files, channel configuration) and cross-links them into a
// sensor.Sensor.
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/sensorfs/sensorfs/regsetting"
)

// Document is the top-level YAML shape: a model name plus a named set
// of register settings.
type Document struct {
	Model     string                        `yaml:"model"`
	Registers map[string]RegisterSettingDoc `yaml:"registers"`
}

// RegisterSettingDoc is one entry under registers: its own channel, and
// relative paths to the register/function side files.
type RegisterSettingDoc struct {
	Channel   ChannelDoc `yaml:"channel"`
	Map       string     `yaml:"map"`
	Functions string     `yaml:"functions"`
}

// RegisterDoc is one entry in a register-map side file.
type RegisterDoc struct {
	Address     string                 `yaml:"address"`
	Width       *uint8                 `yaml:"width"`
	Mask        string                 `yaml:"mask"`
	Min         *uint64                `yaml:"min"`
	Max         *uint64                `yaml:"max"`
	Default     *string                `yaml:"default"`
	Description regsetting.Description `yaml:"description"`
}

// FunctionDoc is one entry in a function-map side file.
type FunctionDoc struct {
	Addr        string                 `yaml:"addr"`
	Description regsetting.Description `yaml:"description"`
	Map         map[string]string      `yaml:"map"`
	Writable    bool                   `yaml:"writable"`
	Default     *string                `yaml:"default"`
}

// ParseDocument parses the top-level YAML document.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ParseRegisterMap parses a register-map side file into declarations
// keyed by name; the returned map has no order, so callers needing
// determinism should sort names themselves.
func ParseRegisterMap(data []byte) (map[string]RegisterDoc, error) {
	var m map[string]RegisterDoc
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseFunctionMap parses a function-map side file.
func ParseFunctionMap(data []byte) (map[string]FunctionDoc, error) {
	var m map[string]FunctionDoc
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
