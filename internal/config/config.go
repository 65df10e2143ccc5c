package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the cluster service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTP: Settings of the HTTP server with the clusters API and metrics.
// - Cluster: Options of the cluster index.
// - Source: Where points are loaded from.
// - Database: Configuration settings for the PostgreSQL database (postgres source only).
type Config struct {
	Env      string
	HTTP     HTTPConfig
	Cluster  ClusterConfig
	Source   SourceConfig
	Database PostgresConfig
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ClusterConfig mirrors cluster.Options.
type ClusterConfig struct {
	MinZoom   int
	MaxZoom   int
	Radius    float64
	Extent    int
	MinPoints int
	NodeSize  int
}

// SourceConfig selects the point source: geojson, postgres or random.
type SourceConfig struct {
	Type   string
	Path   string // GeoJSON file path
	Table  string // Postgres table with id, longitude, latitude columns
	Random RandomConfig
}

// RandomConfig describes generated demo points.
type RandomConfig struct {
	Count int
	Seed  int64
	Area  cluster.BoundingBox
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// ClusterOptions converts the cluster section to index options.
func (c Config) ClusterOptions() cluster.Options {
	return cluster.Options{
		MinZoom:   c.Cluster.MinZoom,
		MaxZoom:   c.Cluster.MaxZoom,
		Radius:    c.Cluster.Radius,
		Extent:    c.Cluster.Extent,
		MinPoints: c.Cluster.MinPoints,
		NodeSize:  c.Cluster.NodeSize,
	}
}

const envPrefix = "GEOCLUSTER"

func setDefaults(v *viper.Viper) {
	opts := cluster.DefaultOptions()

	v.SetDefault("env", "production")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", "5s")
	v.SetDefault("http.write_timeout", "10s")

	v.SetDefault("cluster.min_zoom", opts.MinZoom)
	v.SetDefault("cluster.max_zoom", opts.MaxZoom)
	v.SetDefault("cluster.radius", opts.Radius)
	v.SetDefault("cluster.extent", opts.Extent)
	v.SetDefault("cluster.min_points", opts.MinPoints)
	v.SetDefault("cluster.node_size", opts.NodeSize)

	v.SetDefault("source.type", "random")
	v.SetDefault("source.path", "")
	v.SetDefault("source.table", "public.points")
	v.SetDefault("source.random.count", 100000)
	v.SetDefault("source.random.seed", 1)
	// San Francisco bay area
	v.SetDefault("source.random.west", -122.6445)
	v.SetDefault("source.random.south", 37.1897)
	v.SetDefault("source.random.east", -121.5871)
	v.SetDefault("source.random.north", 38.2033)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "")
}

// MustLoad loads the configuration from environment variables prefixed with GEOCLUSTER_
// and an optional YAML file pointed by GEOCLUSTER_CONFIG. It panics on malformed values.
func MustLoad() *Config {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := os.Getenv(envPrefix + "_CONFIG"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	readTimeout, err := time.ParseDuration(v.GetString("http.read_timeout"))
	if err != nil {
		panic("failed to parse http read timeout from configuration")
	}
	writeTimeout, err := time.ParseDuration(v.GetString("http.write_timeout"))
	if err != nil {
		panic("failed to parse http write timeout from configuration")
	}

	return &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Port:         mustInt(v, "http.port", "failed to parse http port from configuration"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Cluster: ClusterConfig{
			MinZoom:   mustInt(v, "cluster.min_zoom", "failed to parse cluster min zoom from configuration"),
			MaxZoom:   mustInt(v, "cluster.max_zoom", "failed to parse cluster max zoom from configuration"),
			Radius:    mustFloat(v, "cluster.radius", "failed to parse cluster radius from configuration"),
			Extent:    mustInt(v, "cluster.extent", "failed to parse cluster extent from configuration"),
			MinPoints: mustInt(v, "cluster.min_points", "failed to parse cluster min points from configuration"),
			NodeSize:  mustInt(v, "cluster.node_size", "failed to parse cluster node size from configuration"),
		},
		Source: SourceConfig{
			Type:  strings.ToLower(v.GetString("source.type")),
			Path:  v.GetString("source.path"),
			Table: v.GetString("source.table"),
			Random: RandomConfig{
				Count: mustInt(v, "source.random.count", "failed to parse random points count from configuration"),
				Seed:  int64(mustInt(v, "source.random.seed", "failed to parse random seed from configuration")),
				Area: cluster.BoundingBox{
					West:  mustFloat(v, "source.random.west", "failed to parse random area from configuration"),
					South: mustFloat(v, "source.random.south", "failed to parse random area from configuration"),
					East:  mustFloat(v, "source.random.east", "failed to parse random area from configuration"),
					North: mustFloat(v, "source.random.north", "failed to parse random area from configuration"),
				},
			},
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}

func mustInt(v *viper.Viper, key, msg string) int {
	value, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		panic(msg)
	}
	return value
}

func mustFloat(v *viper.Viper, key, msg string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		panic(msg)
	}
	return value
}
