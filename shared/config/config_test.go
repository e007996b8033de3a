package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file    string
		content string
		want    uint32
		encoder string
		wantErr bool
	}{
		{"a.json", `{"map_size": 16, "encoder": "flat"}`, 16, "flat", false},
		{"b.yaml", "map_size: 32\nencoder: morton\n", 32, "morton", false},
		{"c.yml", "render_radius: 4\n", 8, "morton", false},
		{"d.toml", "map_size = 4", 0, "", true},
		{"e.json", `{"map_size": 0}`, 0, "", true},
		{"f.yaml", "encoder: hilbert\n", 0, "", true},
		{"g.json", `{"map_size": `, 0, "", true},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, tt.file)
		if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadFile(path)
		if (err != nil) != tt.wantErr {
			t.Errorf("LoadFile(%s) err = %v, wantErr %v", tt.file, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if cfg.MapSize != tt.want || cfg.Encoder != tt.encoder {
			t.Errorf("LoadFile(%s) = (map_size %d, encoder %q), want (%d, %q)", tt.file, cfg.MapSize, cfg.Encoder, tt.want, tt.encoder)
		}
		// Campos ausentes mantêm o padrão
		if cfg.FramesInFlight != DefaultConfig().FramesInFlight {
			t.Errorf("LoadFile(%s).FramesInFlight = %d, want padrão", tt.file, cfg.FramesInFlight)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	os.WriteFile(path, []byte("x"), 0o644)
	if _, err := LoadFile(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("LoadFile(.ini) err = %v, want ErrUnknownFormat", err)
	}
	if err := DefaultConfig().SaveFile(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("SaveFile(.ini) err = %v, want ErrUnknownFormat", err)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		cfg := DefaultConfig()
		cfg.MapSize = 24
		cfg.RenderRadius = 6.5
		if err := cfg.SaveFile(path); err != nil {
			t.Fatalf("SaveFile(%s) err = %v", name, err)
		}
		got, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s) err = %v", name, err)
		}
		if *got != *cfg {
			t.Errorf("%s: %+v != %+v", name, *got, *cfg)
		}
	}
}
