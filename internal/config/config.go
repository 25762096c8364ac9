package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config корневая структура конфигурации приложения
type Config struct {
	Chunk     ChunkConfig     `yaml:"chunk"`
	Pool      PoolConfig      `yaml:"pool"`
	Generator GeneratorConfig `yaml:"generator"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

type ChunkConfig struct {
	Size int `yaml:"size"`
}

type PoolConfig struct {
	VertexCapacity uint64 `yaml:"vertex_capacity"` // байт
	HeaderCapacity uint64 `yaml:"header_capacity"` // байт
	LoadRadius     int    `yaml:"load_radius"`
	Workers        int    `yaml:"workers"` // 0 - из env VOXCORE_WORKERS или по умолчанию
}

type GeneratorConfig struct {
	Seed       int64   `yaml:"seed"`
	NoiseScale float64 `yaml:"noise_scale"`
	SeaLevel   int     `yaml:"sea_level"`
}

type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LogConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
}

// Значения по умолчанию
const (
	DefaultChunkSize      = 32
	DefaultVertexCapacity = 256 << 20
	DefaultHeaderCapacity = 1 << 20
	DefaultLoadRadius     = 4
	DefaultWorkers        = 4
	DefaultNoiseScale     = 0.02
	DefaultSeaLevel       = 20
	DefaultStoragePath    = "data"
	DefaultMetricsAddr    = ":2112"
	DefaultServiceName    = "voxcore"
	DefaultLogDir         = "logs"
	DefaultConsoleLevel   = "info"
)

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults заполняет незаданные поля
func (c *Config) applyDefaults() {
	if c.Chunk.Size == 0 {
		c.Chunk.Size = DefaultChunkSize
	}
	if c.Pool.VertexCapacity == 0 {
		c.Pool.VertexCapacity = DefaultVertexCapacity
	}
	if c.Pool.HeaderCapacity == 0 {
		c.Pool.HeaderCapacity = DefaultHeaderCapacity
	}
	if c.Pool.LoadRadius == 0 {
		c.Pool.LoadRadius = DefaultLoadRadius
	}
	if c.Generator.NoiseScale == 0 {
		c.Generator.NoiseScale = DefaultNoiseScale
	}
	if c.Generator.SeaLevel == 0 {
		c.Generator.SeaLevel = DefaultSeaLevel
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
	if c.Log.Dir == "" {
		c.Log.Dir = DefaultLogDir
	}
	if c.Log.ConsoleLevel == "" {
		c.Log.ConsoleLevel = DefaultConsoleLevel
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var errs []error
	if c.Chunk.Size < 1 || c.Chunk.Size > 64 {
		errs = append(errs, fmt.Errorf("chunk.size %d вне диапазона 1..64", c.Chunk.Size))
	}
	if c.Pool.HeaderCapacity < 16 {
		errs = append(errs, fmt.Errorf("pool.header_capacity %d меньше одного заголовка", c.Pool.HeaderCapacity))
	}
	if c.Pool.LoadRadius < 0 {
		errs = append(errs, fmt.Errorf("pool.load_radius %d отрицательный", c.Pool.LoadRadius))
	}
	if c.Pool.Workers < 0 {
		errs = append(errs, fmt.Errorf("pool.workers %d отрицательный", c.Pool.Workers))
	}
	if c.Generator.NoiseScale <= 0 {
		errs = append(errs, fmt.Errorf("generator.noise_scale %v должен быть положительным", c.Generator.NoiseScale))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// GetMetricsAddr возвращает адрес метрик с приоритетом: config -> env -> default
func (m *MetricsConfig) GetMetricsAddr() string {
	return getWithEnvFallback(m.Addr, "VOXCORE_METRICS_ADDR", DefaultMetricsAddr)
}

// GetStoragePath возвращает путь хранилища с поддержкой env
func (s *StorageConfig) GetStoragePath() string {
	return getWithEnvFallback(s.Path, "VOXCORE_DATA_DIR", DefaultStoragePath)
}

// GetWorkers возвращает число воркеров; env VOXCORE_WORKERS перекрывает
// только незаданное значение
func (p *PoolConfig) GetWorkers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	if envVal := os.Getenv("VOXCORE_WORKERS"); envVal != "" {
		if n, err := strconv.Atoi(envVal); err == nil && n > 0 {
			return n
		}
	}
	return DefaultWorkers
}

// getWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", берёт путь из ENV VOXCORE_CONFIG; если и он пуст,
// возвращает конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXCORE_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("разбор %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
