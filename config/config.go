package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Values come from the
// environment (optionally via a .env file) with defaults that match a
// local development layout.
type Config struct {
	// Dataset layout
	RawDataRoot    string // where raw source corpora live before prep
	DatasetRoot    string // generated CMACBench dataset root
	RestrictedRoot string // generated root for data we can't share (Human-Speech)

	// Prep parameters
	FFmpegPath    string
	CopyWorkers   int
	FrameStepMS   float64 // frame grid step for the make stage, in milliseconds
	ToleranceS    float64 // boundary matching tolerance for eval, in seconds
	TrainFraction float64
	ValFraction   float64
	TestFraction  float64
	SplitSeed     int64

	// MySQL
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MinIO
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// Reporting server
	ServerAddr string

	// Logging
	LogLevel  string
	LogPath   string
	LogMaxAge int // days
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvFloat gets an environment variable as float64 or returns a default value.
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	dataBase := getEnv("CMACBENCH_DATA_DIR", "data")

	return &Config{
		RawDataRoot:    getEnv("RAW_DATA_ROOT", filepath.Join(dataBase, "raw")),
		DatasetRoot:    getEnv("DATASET_ROOT", filepath.Join(dataBase, "CMACBench")),
		RestrictedRoot: getEnv("RESTRICTED_ROOT", filepath.Join(dataBase, "DATA_WE_CANT_SHARE")),

		FFmpegPath:    getEnv("FFMPEG_PATH", "ffmpeg"),
		CopyWorkers:   getEnvInt("COPY_WORKERS", 4),
		FrameStepMS:   getEnvFloat("FRAME_STEP_MS", 1.0),
		ToleranceS:    getEnvFloat("BOUNDARY_TOLERANCE_S", 0.004),
		TrainFraction: getEnvFloat("TRAIN_FRACTION", 0.8),
		ValFraction:   getEnvFloat("VAL_FRACTION", 0.1),
		TestFraction:  getEnvFloat("TEST_FRACTION", 0.1),
		SplitSeed:     int64(getEnvInt("SPLIT_SEED", 42)),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default for passwords
		DBName:     getEnv("DB_NAME", "cmacbench"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "cmacbench"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPath:   getEnv("LOG_PATH", filepath.Join("logs", "cmacbench.log")),
		LogMaxAge: getEnvInt("LOG_MAX_AGE", 28),
	}
}
