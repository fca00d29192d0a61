package config

import (
	"os"
	"strings"
	"testing"
)

func mustLoad(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cfg
}

func clearModelEnv(t *testing.T) {
	t.Helper()
	os.Unsetenv("FACEID_MODEL")
	os.Unsetenv("FACEID_IMAGE_SIZE")
	os.Unsetenv("FACEID_EMBEDDING_DIM")
	os.Unsetenv("FACEID_THRESHOLD")
	os.Unsetenv("MODEL_URL")
}

func TestLoad_Defaults(t *testing.T) {
	clearModelEnv(t)

	cfg := mustLoad(t)

	if cfg.Model.Name != "facenet" {
		t.Errorf("expected default model 'facenet', got '%s'", cfg.Model.Name)
	}
	if cfg.Model.ImageSize != 160 {
		t.Errorf("expected default image size 160, got %d", cfg.Model.ImageSize)
	}
	if cfg.Model.Dim != 128 {
		t.Errorf("expected default dim 128, got %d", cfg.Model.Dim)
	}
	if cfg.Model.Threshold != 1.10 {
		t.Errorf("expected default threshold 1.10, got %f", cfg.Model.Threshold)
	}
	if cfg.Model.URL != "http://localhost:8000" {
		t.Errorf("expected default model URL, got '%s'", cfg.Model.URL)
	}
}

func TestLoad_ModelProfileSelection(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("FACEID_MODEL", "arcface")

	cfg := mustLoad(t)

	if cfg.Model.ImageSize != 112 {
		t.Errorf("expected arcface image size 112, got %d", cfg.Model.ImageSize)
	}
	if cfg.Model.Dim != 512 {
		t.Errorf("expected arcface dim 512, got %d", cfg.Model.Dim)
	}
	if cfg.Model.Threshold != 1.24 {
		t.Errorf("expected arcface threshold 1.24, got %f", cfg.Model.Threshold)
	}
}

func TestLoad_UnknownModelFails(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("FACEID_MODEL", "nonexistent")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown model")
	} else if !strings.Contains(err.Error(), "nonexistent") || !strings.Contains(err.Error(), "facenet") {
		t.Errorf("error should name the unknown model and the known ones, got: %v", err)
	}
}

func TestLoad_EnvOverridesProfile(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("FACEID_IMAGE_SIZE", "96")
	t.Setenv("FACEID_EMBEDDING_DIM", "256")
	t.Setenv("FACEID_THRESHOLD", "0.85")

	cfg := mustLoad(t)

	if cfg.Model.ImageSize != 96 {
		t.Errorf("expected image size 96, got %d", cfg.Model.ImageSize)
	}
	if cfg.Model.Dim != 256 {
		t.Errorf("expected dim 256, got %d", cfg.Model.Dim)
	}
	if cfg.Model.Threshold != 0.85 {
		t.Errorf("expected threshold 0.85, got %f", cfg.Model.Threshold)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("FACEID_EMBEDDING_DIM", "invalid")

	cfg := mustLoad(t)

	if cfg.Model.Dim != 128 {
		t.Errorf("expected profile dim 128 for invalid input, got %d", cfg.Model.Dim)
	}
}

func TestLoad_NegativeIntFallsBack(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("FACEID_EMBEDDING_DIM", "-42")

	cfg := mustLoad(t)

	if cfg.Model.Dim != 128 {
		t.Errorf("expected profile dim 128 for negative input, got %d", cfg.Model.Dim)
	}
}

func TestLoad_StoreDefaults(t *testing.T) {
	os.Unsetenv("FACEID_EMBEDDINGS_DIR")
	os.Unsetenv("FACEID_UPLOADS_DIR")
	os.Unsetenv("FACEID_ARCHIVE_CROPS")

	cfg := mustLoad(t)

	if cfg.Store.Dir != "embeddings" {
		t.Errorf("expected embeddings dir 'embeddings', got '%s'", cfg.Store.Dir)
	}
	if cfg.Store.UploadsDir != "uploads" {
		t.Errorf("expected uploads dir 'uploads', got '%s'", cfg.Store.UploadsDir)
	}
	if !cfg.Store.ArchiveCrops {
		t.Error("expected crop archival enabled by default")
	}
}

func TestLoad_StoreEnv(t *testing.T) {
	t.Setenv("FACEID_EMBEDDINGS_DIR", "/data/emb")
	t.Setenv("FACEID_ARCHIVE_CROPS", "false")

	cfg := mustLoad(t)

	if cfg.Store.Dir != "/data/emb" {
		t.Errorf("expected embeddings dir '/data/emb', got '%s'", cfg.Store.Dir)
	}
	if cfg.Store.ArchiveCrops {
		t.Error("expected crop archival disabled")
	}
}

func TestLoad_DatabaseDefaults(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DATABASE_MAX_OPEN_CONNS")

	cfg := mustLoad(t)

	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected 25 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("expected 5 max idle conns, got %d", cfg.Database.MaxIdleConns)
	}
}

func TestProfile_Known(t *testing.T) {
	cfg := mustLoad(t)

	p := cfg.Profile("dlib")
	if p.Dim != 128 {
		t.Errorf("expected dlib dim 128, got %d", p.Dim)
	}
	if p.Threshold != 0.60 {
		t.Errorf("expected dlib threshold 0.60, got %f", p.Threshold)
	}
}

func TestProfile_Unknown(t *testing.T) {
	cfg := mustLoad(t)

	p := cfg.Profile("unknown-model-xyz")
	if p.Dim != 0 || p.ImageSize != 0 || p.Threshold != 0 {
		t.Errorf("expected zero profile for unknown model, got %+v", p)
	}
}

func TestProfilesLoaded(t *testing.T) {
	cfg := mustLoad(t)

	if len(cfg.Profiles.Models) == 0 {
		t.Fatal("expected profiles to be loaded from embedded YAML")
	}
	for _, name := range []string{"facenet", "arcface", "dlib"} {
		if _, ok := cfg.Profiles.Models[name]; !ok {
			t.Errorf("expected model '%s' to be in profiles", name)
		}
	}
}
