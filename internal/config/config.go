package config

import (
	"flag"
	"os"
	"path/filepath"
)

const DefaultGlamourStyle = "dark"

// DefaultBaseDir matches the evaluation layout this viewer was built for.
const DefaultBaseDir = "evaluation/python/verified/20250329_OpenHands_Claude-3.5-Sonnet(Oct)"

type AppConfig struct {
	BaseDir     string
	ResultsPath string
	TrajsDir    string
	ExportDir   string
	Theme       string
	List        bool
}

func Parse() AppConfig {
	var cfg AppConfig

	flag.StringVar(&cfg.BaseDir, "base", DetectBaseDir(""), "evaluation base directory")
	flag.StringVar(&cfg.ResultsPath, "results", "", "path to results.json (default <base>/results/results.json)")
	flag.StringVar(&cfg.TrajsDir, "trajs", "", "trajectory directory root (default <base>/trajs)")
	flag.StringVar(&cfg.ExportDir, "export-dir", "", "override download output directory")
	flag.StringVar(&cfg.Theme, "theme", DefaultGlamourStyle, "glamour style for markdown content")
	flag.BoolVar(&cfg.List, "list", false, "print the task table and exit")
	flag.Parse()

	cfg.BaseDir = DetectBaseDir(cfg.BaseDir)
	if cfg.ResultsPath == "" {
		cfg.ResultsPath = filepath.Join(cfg.BaseDir, "results", "results.json")
	}
	if cfg.TrajsDir == "" {
		cfg.TrajsDir = filepath.Join(cfg.BaseDir, "trajs")
	}

	return cfg
}

func DetectBaseDir(explicit string) string {
	if explicit != "" {
		return filepath.Clean(explicit)
	}
	if fromEnv := os.Getenv("SWE_EVAL_BASE"); fromEnv != "" {
		return filepath.Clean(fromEnv)
	}
	return DefaultBaseDir
}
