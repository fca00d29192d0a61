package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

type Config struct {
	Model    ModelConfig
	Store    StoreConfig
	Database DatabaseConfig
	Profiles ProfilesConfig
}

type ModelConfig struct {
	Name      string  // embedding model name, selects a profile from models.yaml
	URL       string  // model server base URL (defaults to http://localhost:8000)
	ImageSize int     // width/height of the normalized face crop in pixels
	Dim       int     // embedding vector length
	Threshold float64 // maximum Euclidean distance for an accepted match
}

type StoreConfig struct {
	Dir          string // directory holding one embedding file per label
	UploadsDir   string // directory for archived face crops
	ArchiveCrops bool   // save the normalized crop as JPEG on enroll
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; empty means directory store
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type ProfilesConfig struct {
	Models map[string]ModelProfile `yaml:"models"`
}

// ModelProfile holds the tuning constants for one embedding model family.
type ModelProfile struct {
	ImageSize int     `yaml:"image_size"`
	Dim       int     `yaml:"dim"`
	Threshold float64 `yaml:"threshold"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a non-negative float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

// envStr reads an environment variable with a fallback default.
func envStr(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean with a fallback default.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

func Load() (*Config, error) {
	var profiles ProfilesConfig
	if err := yaml.Unmarshal(modelsYAML, &profiles); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}

	modelName := envStr("FACEID_MODEL", "facenet")
	profile, ok := profiles.Models[modelName]
	if !ok {
		known := make([]string, 0, len(profiles.Models))
		for name := range profiles.Models {
			known = append(known, name)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown model %q, known models: %s", modelName, strings.Join(known, ", "))
	}

	return &Config{
		Model: ModelConfig{
			Name:      modelName,
			URL:       envStr("MODEL_URL", "http://localhost:8000"),
			ImageSize: envInt("FACEID_IMAGE_SIZE", profile.ImageSize),
			Dim:       envInt("FACEID_EMBEDDING_DIM", profile.Dim),
			Threshold: envFloat("FACEID_THRESHOLD", profile.Threshold),
		},
		Store: StoreConfig{
			Dir:          envStr("FACEID_EMBEDDINGS_DIR", "embeddings"),
			UploadsDir:   envStr("FACEID_UPLOADS_DIR", "uploads"),
			ArchiveCrops: envBool("FACEID_ARCHIVE_CROPS", true),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Profiles: profiles,
	}, nil
}

// Profile returns the tuning profile for a model name, or a zero profile
// if the model is not listed in models.yaml.
func (c *Config) Profile(modelName string) ModelProfile {
	if p, ok := c.Profiles.Models[modelName]; ok {
		return p
	}
	return ModelProfile{}
}
