package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rtt-forecast/internal/theatre"
	"rtt-forecast/internal/workspace"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	ExportDir           string
	WorkspaceFile       string
	EnableMermaidCharts bool
	SweepConcurrency    int
	Defaults            theatre.Assumptions
}

// defaultEnv maps environment overrides onto assumption keys.
var defaultEnv = []struct {
	env string
	key string
}{
	{"DEFAULT_HOURS_PER_SESSION", theatre.KeyHoursPerSession},
	{"DEFAULT_THEATRE_EFFICIENCY", theatre.KeyTheatreEfficiency},
	{"DEFAULT_CASES_PER_SESSION", theatre.KeyAvgCasesPerSession},
	{"DEFAULT_WEEKLY_DEMAND", theatre.KeyAvgWeeklyDemand},
	{"DEFAULT_RTT_TARGET", theatre.KeyRTTTargetPercent},
	{"DEFAULT_TIMEFRAME_WEEKS", theatre.KeyTimeframeToAchieve},
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := getEnv("DATA_PATH", "")
	if dataPath == "" {
		dataPath = "."
		if exeDir != "" {
			dataPath = exeDir
		}
	}
	logDir := getEnv("LOGS_FOLDER", "")
	if logDir == "" {
		logDir = filepath.Join(dataPath, "logs")
	}
	exportDir := filepath.Join(dataPath, "exports")

	for _, dir := range []string{logDir, exportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	concurrency, err := strconv.Atoi(getEnv("SWEEP_CONCURRENCY", "4"))
	if err != nil || concurrency < 1 {
		concurrency = 4
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		ExportDir:           exportDir,
		WorkspaceFile:       filepath.Join(dataPath, workspace.FileName),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		SweepConcurrency:    concurrency,
		Defaults:            loadDefaults(),
	}

	return cfg, nil
}

// loadDefaults applies DEFAULT_* overrides through the same edit rules the UI uses.
// Unparseable or rejected values are logged and the built-in default kept.
func loadDefaults() theatre.Assumptions {
	a := theatre.DefaultAssumptions()
	for _, d := range defaultEnv {
		raw, ok := os.LookupEnv(d.env)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Warn().Str("var", d.env).Str("value", raw).Msg("Ignoring non-numeric default")
			continue
		}
		next, err := a.Set(d.key, v)
		if err != nil {
			log.Warn().Err(err).Str("var", d.env).Msg("Ignoring out-of-range default")
			continue
		}
		a = next
	}
	return a
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
