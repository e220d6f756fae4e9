package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"

	"scene-editor/internal/editor"
	"scene-editor/internal/editorconfig"
	"scene-editor/internal/graphics"
	"scene-editor/internal/logger"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

func main() {
	configPath := flag.String("config", editorconfig.DefaultPath, "preferences file")
	scenePath := flag.String("scene", "", "YAML scene file (default: preferences, then the built-in scene)")
	logPath := flag.String("log", logger.LogFilePath, "log file")
	flag.Parse()

	cfg := expand(*configPath)
	log := logger.New(expand(*logPath))
	prefs, err := editorconfig.Load(cfg)
	if err != nil {
		log.Warn("preferences: %v", err)
	}
	if *scenePath != "" {
		prefs.ScenePath = *scenePath
	}

	graph := scene.New()
	def := primitives.DefaultScene()
	if prefs.ScenePath != "" {
		loaded, err := primitives.LoadScene(expand(prefs.ScenePath))
		if err != nil {
			log.Warn("scene: %v (using the default scene)", err)
		} else {
			def = loaded
		}
	}
	if err := primitives.Spawn(graph, def); err != nil {
		log.Warn("scene: %v", err)
	}

	ed := editor.New(graph, editor.Options{Prefs: prefs, PrefsPath: cfg, Log: log})
	// Remaining arguments are model files to import at startup.
	for _, path := range flag.Args() {
		if err := ed.Import(path); err != nil {
			fmt.Fprintf(os.Stderr, "import %s: %v\n", path, err)
		}
	}

	win := graphics.Window{
		Title:     "Scene Editor",
		Width:     prefs.WindowWidth,
		Height:    prefs.WindowHeight,
		TargetFPS: prefs.TargetFPS,
	}
	graphics.Run(win, ed.Update, ed.Draw, ed.Close)
}

func expand(path string) string {
	p, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return p
}
