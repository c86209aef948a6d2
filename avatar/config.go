package avatar

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the construction-time configuration of the figure. Everything
// has a compiled-in default; a YAML preset file can override fields.
type Config struct {
	Name   string `yaml:"name"`
	Author string `yaml:"author"`

	Height        float32 `yaml:"height"` // total height in meters
	ShoulderWidth float32 `yaml:"shoulderWidth"`
	HipWidth      float32 `yaml:"hipWidth"`
	HeadSize      float32 `yaml:"headSize"`

	SkinColor  []float32 `yaml:"skinColor,flow"`
	ClothColor []float32 `yaml:"clothColor,flow"`
	EyeColor   []float32 `yaml:"eyeColor,flow"`
	MouthColor []float32 `yaml:"mouthColor,flow"`

	AtlasSize int `yaml:"atlasSize"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "avatar",
		Height:        1.6,
		ShoulderWidth: 0.34,
		HipWidth:      0.2,
		HeadSize:      0.24,
		SkinColor:     []float32{1, 0.88, 0.76},
		ClothColor:    []float32{0.3, 0.35, 0.7},
		EyeColor:      []float32{0.15, 0.2, 0.3},
		MouthColor:    []float32{0.8, 0.4, 0.4},
		AtlasSize:     256,
	}
}

// LoadConfig reads a YAML preset over the defaults.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func rgba(c []float32) [4]float32 {
	col := [4]float32{0, 0, 0, 1}
	copy(col[:], c)
	if len(c) < 4 {
		col[3] = 1
	}
	return col
}
