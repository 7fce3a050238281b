package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	NotionToken   string `mapstructure:"notion_token" validate:"required"`
	DatabaseID    string `mapstructure:"database_id" validate:"required"`
	NotionVersion string `mapstructure:"notion_version" validate:"required"`
	APIBaseURL    string `mapstructure:"api_base_url" validate:"required,url"`
	// Letter templates, one per language
	ENTemplate string `mapstructure:"en_template" validate:"required"`
	FRTemplate string `mapstructure:"fr_template" validate:"required"`
	// Local directories and files
	CVRawDir     string `mapstructure:"cv_raw_dir" validate:"required"`
	CVRenamedDir string `mapstructure:"cv_renamed_dir" validate:"required"`
	LettersDir   string `mapstructure:"letters_dir" validate:"required"`
	JournalPath  string `mapstructure:"journal_path"` // empty disables the journal
	// Behaviour
	BlockType        string        `mapstructure:"block_type" validate:"oneof=paragraph code"`
	PositionProperty string        `mapstructure:"position_property" validate:"required"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
	LogLevel         string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// ErrMissingCredentials is returned by Validate when the Notion token or database is unset
var ErrMissingCredentials = errors.New("notion_token and database_id must be set (config file, JOBAPPLIER_* or NOTION_* env)")

// Store is a loaded configuration file
type Store struct {
	v    *viper.Viper
	path string
}

// DefaultDir returns ~/.jobapplier
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".jobapplier"
	}
	return filepath.Join(homeDir, ".jobapplier")
}

// DefaultPath returns the path of the config file
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("notion_token", "")
	v.SetDefault("database_id", "")
	v.SetDefault("notion_version", "2022-06-28")
	v.SetDefault("api_base_url", "https://api.notion.com/v1")
	v.SetDefault("en_template", filepath.Join(dir, "templates", "en_template.txt"))
	v.SetDefault("fr_template", filepath.Join(dir, "templates", "fr_template.txt"))
	v.SetDefault("cv_raw_dir", filepath.Join(dir, "cv", "raw"))
	v.SetDefault("cv_renamed_dir", filepath.Join(dir, "cv", "renamed"))
	v.SetDefault("letters_dir", filepath.Join(dir, "letters"))
	v.SetDefault("journal_path", filepath.Join(dir, "journal.db"))
	v.SetDefault("block_type", "paragraph")
	v.SetDefault("position_property", "Position")
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("log_level", "info")
}

// Load reads the config file at path (DefaultPath when empty), creating it with
// defaults on first use. Environment variables override the file.
func Load(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	dir := filepath.Dir(path)

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(path); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, dir)

	v.SetEnvPrefix("JOBAPPLIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The integration token and database id keep their usual names
	if err := v.BindEnv("notion_token", "JOBAPPLIER_NOTION_TOKEN", "NOTION_TOKEN"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("database_id", "JOBAPPLIER_DATABASE_ID", "NOTION_DATABASE_ID"); err != nil {
		return nil, err
	}

	// Read config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &Store{v: v, path: path}, nil
}

// Config unmarshals the current values
func (s *Store) Config() (*Config, error) {
	cfg := &Config{}
	if err := s.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Set updates a configuration value and writes the file
func (s *Store) Set(key, value string) error {
	if !s.v.IsSet(key) && !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	s.v.Set(key, value)
	return s.v.WriteConfig()
}

// Get retrieves a configuration value
func (s *Store) Get(key string) string {
	return s.v.GetString(key)
}

// Keys lists the known configuration keys in order
func Keys() []string {
	keys := []string{}
	v := viper.New()
	setDefaults(v, "")
	keys = append(keys, v.AllKeys()...)
	sort.Strings(keys)
	return keys
}

func isKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the values and normalizes the database id to its dashed form
func (c *Config) Validate() error {
	if c.NotionToken == "" || c.DatabaseID == "" {
		return ErrMissingCredentials
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(problems, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	id, err := NormalizeID(c.DatabaseID)
	if err != nil {
		return err
	}
	c.DatabaseID = id
	return nil
}

// NormalizeID accepts a Notion id with or without dashes, or the URL of a
// database, and returns the dashed form.
func NormalizeID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexAny(s, "/-"); i >= 0 && len(s)-i-1 == 32 {
		s = s[i+1:]
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid database id %q: %w", s, err)
	}
	return id.String(), nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# jobapplier configuration
# Notion integration (keep this file secure!)
# NOTION_TOKEN / NOTION_DATABASE_ID in the environment or a .env file also work.
notion_token: ""
database_id: ""
notion_version: "2022-06-28"

# Letters are uploaded as "paragraph" or "code" blocks
block_type: paragraph
position_property: Position

log_level: info
http_timeout: 30s
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}
