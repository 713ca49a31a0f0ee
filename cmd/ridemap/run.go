package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"syscall"

	"github.com/ChicagoDave/ridemap/internal/server"
	"github.com/ChicagoDave/ridemap/internal/viewer"
	"github.com/ChicagoDave/ridemap/pkg/routing"
	"github.com/ChicagoDave/ridemap/pkg/scene"
	"github.com/ChicagoDave/ridemap/pkg/spec"
	"github.com/ChicagoDave/ridemap/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// newLogger builds the process logger. level is a logrus level name; an
// empty or unknown level means info.
func newLogger(level string) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return logrus.NewEntry(l)
}

// loadAndValidate loads scene.yaml and runs schema validation.
func loadAndValidate(projectPath string) (*spec.SceneSpec, *validation.Report, error) {
	sceneSpec, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading spec: %w", err)
	}
	schemaReport := validation.ValidateSchema(sceneSpec)
	return sceneSpec, schemaReport, nil
}

// loadScene loads, validates and assembles the scene of a project.
func loadScene(projectPath string, log *logrus.Entry) (*scene.Scene, error) {
	sceneSpec, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, err
	}
	if err := schemaReport.Err(); err != nil {
		printValidationReport(schemaReport)
		return nil, err
	}
	return scene.Assemble(sceneSpec, log)
}

func runValidate(projectPath string) error {
	sceneSpec, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	report := validation.Validate(sceneSpec)
	if report.Valid {
		sc, err := scene.Assemble(sceneSpec, newLogger("warn"))
		if err != nil {
			return err
		}
		report.Merge(scene.ValidateGraph(sc.Graph()))
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runRoute(projectPath string, jsonOut bool) error {
	sc, err := loadScene(projectPath, newLogger("warn"))
	if err != nil {
		return err
	}
	route := sc.Route()

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"route":    route,
			"summary":  routing.Summarize(route),
			"tunables": sc.Spec.Route.Router.Tunables(),
		})
	}
	printRoute(route, sc.Spec.Route.Router.Tunables())
	return nil
}

type renderOptions struct {
	out     string
	frame   bool
	width   int
	height  int
	advance float64
}

func runRender(projectPath string, opts renderOptions) error {
	log := newLogger(os.Getenv("LOG_LEVEL"))
	sc, err := loadScene(projectPath, log)
	if err != nil {
		return err
	}

	var img image.Image
	if opts.frame {
		w, h := opts.width, opts.height
		if w <= 0 {
			w = sc.Spec.Screen.Width
		}
		if h <= 0 {
			h = sc.Spec.Screen.Height
		}
		sc.Advance(opts.advance)
		img = sc.Frame(w, h)
	} else {
		img = sc.MapImage()
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}

	b := img.Bounds()
	log.WithFields(logrus.Fields{"path": opts.out, "width": b.Dx(), "height": b.Dy()}).Info("image written")
	return nil
}

func runExport(projectPath, format string) error {
	sc, err := loadScene(projectPath, newLogger("warn"))
	if err != nil {
		return err
	}

	var out any
	switch format {
	case "geojson":
		out = sc.Scene2D().GeoJSON()
	case "scene":
		out = sc.Scene2D()
	case "graph":
		out = sc.Graph()
	default:
		return fmt.Errorf("unknown export format %q (want geojson, scene or graph)", format)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// serveConfig is the dev server process configuration, read from the
// environment after loading .env.
type serveConfig struct {
	Port        string
	ProjectPath string
	LogLevel    string
}

func loadServeConfig() serveConfig {
	return serveConfig{
		Port:        getEnv("PORT", "3000"),
		ProjectPath: getEnv("RIDEMAP_PROJECT", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func runServe(args []string, port string) error {
	envErr := godotenv.Load()
	cfg := loadServeConfig()
	log := newLogger(cfg.LogLevel)
	if envErr != nil {
		log.Debug("no .env file found, using process environment")
	}

	if len(args) > 0 {
		cfg.ProjectPath = args[0]
	}
	if port != "" {
		cfg.Port = port
	}

	var (
		sc  *scene.Scene
		err error
	)
	if cfg.ProjectPath == "" {
		log.Info("no project given, serving the reference scene")
		sc, err = scene.Assemble(spec.Default(), log)
	} else {
		sc, err = loadScene(cfg.ProjectPath, log)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.ProjectPath, cfg.Port, sc, log).Start(ctx)
}

func runView(projectPath string, tripSeconds float64) error {
	log := newLogger(os.Getenv("LOG_LEVEL"))
	sc, err := loadScene(projectPath, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := viewer.DefaultConfig()
	cfg.TripSeconds = tripSeconds
	return viewer.Run(ctx, sc, cfg, log)
}
