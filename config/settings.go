package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	Window WindowSettings `json:"window"`
	Scene  SceneSettings  `json:"scene"`
	Server ServerSettings `json:"server"`
}

type WindowSettings struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  bool   `json:"vsync"`
}

type SceneSettings struct {
	GridSize int     `json:"gridSize"` // instances per grid edge
	Spacing  float32 `json:"spacing"`  // world units between grid cells
}

type ServerSettings struct {
	Addr             string `json:"addr"`
	UpdateIntervalMs int    `json:"updateIntervalMs"`
}

// Defaults returns the settings used when no settings.json exists.
func Defaults() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
			Title:  "Mesh Batch Viewer",
			VSync:  true,
		},
		Scene: SceneSettings{
			GridSize: 8,
			Spacing:  3.0,
		},
		Server: ServerSettings{
			Addr:             ":8080",
			UpdateIntervalMs: 250,
		},
	}
}

// Load reads settings from path, falling back to defaults when the
// file does not exist.
func Load(path string) (Settings, error) {
	settings := Defaults()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&settings); err != nil {
		return Defaults(), fmt.Errorf("error parsing %s: %v", path, err)
	}

	return settings, nil
}

// Reload re-reads settings from path into the live settings. On error
// the current settings are left untouched. A changed grid size is
// announced, since the batch is only built at startup.
func Reload(path string, settings *Settings) error {
	oldGrid := settings.Scene.GridSize

	loaded, err := Load(path)
	if err != nil {
		return err
	}
	*settings = loaded

	if oldGrid != settings.Scene.GridSize {
		fmt.Printf("Grid size changed from %d to %d - restart required\n",
			oldGrid, settings.Scene.GridSize)
	}

	return nil
}
