package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/totegamma/discography/internal/domain"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server  Server        `yaml:"server"`
	Catalog domain.Config `yaml:"catalog"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	Storage       string `yaml:"storage"` // postgres, memory
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

func Default() Config {
	return Config{
		Server: Server{
			Listen:  ":8000",
			Storage: StorageMemory,
		},
		Catalog: domain.Config{
			Seed:                      true,
			VerifyReferencesOnReplace: true,
			ScopeSongPatchByAlbum:     true,
		},
	}
}

// Load reads the yaml file at path over the defaults, then applies
// DISCOGRAPHY_* variables from the environment or a .env file.
// An empty path skips the file.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "open config")
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "decode config")
		}
	}

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	err = applyEnv(&config, os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	return config, config.Validate()
}

func applyEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup("DISCOGRAPHY_" + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup("DISCOGRAPHY_" + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "DISCOGRAPHY_%s", key)
		}
		*dst = b
		return nil
	}

	str("LISTEN", &config.Server.Listen)
	str("STORAGE", &config.Server.Storage)
	str("POSTGRES_DSN", &config.Server.PostgresDsn)
	str("REDIS_ADDR", &config.Server.RedisAddr)
	str("REDIS_PASSWORD", &config.Server.RedisPassword)
	str("TRACE_ENDPOINT", &config.Server.TraceEndpoint)

	if v, ok := lookup("DISCOGRAPHY_REDIS_DB"); ok {
		db, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(err, "DISCOGRAPHY_REDIS_DB")
		}
		config.Server.RedisDB = db
	}

	for key, dst := range map[string]*bool{
		"ENABLE_TRACE":                 &config.Server.EnableTrace,
		"SEED":                         &config.Catalog.Seed,
		"VERIFY_REFERENCES_ON_REPLACE": &config.Catalog.VerifyReferencesOnReplace,
		"SCOPE_SONG_PATCH_BY_ALBUM":    &config.Catalog.ScopeSongPatchByAlbum,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Server.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.Server.PostgresDsn == "" {
			return errors.New("postgres storage needs server.postgresDsn")
		}
	default:
		return errors.Errorf("unknown storage %q", c.Server.Storage)
	}
	if c.Server.EnableTrace && c.Server.TraceEndpoint == "" {
		return errors.New("enableTrace needs server.traceEndpoint")
	}
	return nil
}
