// Package config reads linguamate settings from the environment (and .env).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver      string // sqlite | postgres
	DatabaseURL   string
	RecordingsDir string

	STTProvider string // whisper | deepgram
	TTSProvider string // elevenlabs | openai

	OpenAIKey         string
	OpenAIModel       string
	DeepgramKey       string
	ElevenLabsKey     string
	ElevenLabsVoiceID string

	Calibration   time.Duration
	ListenTimeout time.Duration

	// PersistPartial - сохранять распознанный текст, даже если перевод
	// или синтез упали
	PersistPartial bool
	DefaultUser    string

	S3 S3Config

	TelegramToken string
	AdminChatIDs  []int64
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
}

// Enabled reports whether audio archiving is configured.
func (c S3Config) Enabled() bool { return c.Endpoint != "" && c.Bucket != "" }

// Load reads .env if present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from an arbitrary lookup, which keeps tests off
// the real environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	c := &Config{
		Port:              get("PORT", "8080"),
		DBDriver:          strings.ToLower(get("DB_DRIVER", "sqlite")),
		DatabaseURL:       get("DATABASE_URL", "linguamate_storage.db"),
		RecordingsDir:     get("RECORDINGS_DIR", "recordings"),
		STTProvider:       strings.ToLower(get("STT_PROVIDER", "whisper")),
		TTSProvider:       strings.ToLower(get("TTS_PROVIDER", "elevenlabs")),
		OpenAIKey:         get("OPENAI_API_KEY", ""),
		OpenAIModel:       get("OPENAI_MODEL", "gpt-4o-mini"),
		DeepgramKey:       get("DEEPGRAM_API_KEY", ""),
		ElevenLabsKey:     get("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: get("ELEVENLABS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),
		DefaultUser:       get("DEFAULT_USER", "default"),
		TelegramToken:     get("TELEGRAM_BOT_TOKEN", ""),
		S3: S3Config{
			Endpoint:  get("S3_ENDPOINT", ""),
			AccessKey: get("S3_ACCESS_KEY", ""),
			SecretKey: get("S3_SECRET_KEY", ""),
			Bucket:    get("S3_BUCKET", ""),
			Region:    get("S3_REGION", ""),
		},
	}

	var err error
	if c.Calibration, err = seconds(get("CALIBRATION_SECONDS", "1")); err != nil {
		return nil, fmt.Errorf("CALIBRATION_SECONDS: %w", err)
	}
	if c.ListenTimeout, err = seconds(get("LISTEN_TIMEOUT_SECONDS", "5")); err != nil {
		return nil, fmt.Errorf("LISTEN_TIMEOUT_SECONDS: %w", err)
	}
	if c.PersistPartial, err = strconv.ParseBool(get("PERSIST_PARTIAL", "false")); err != nil {
		return nil, fmt.Errorf("PERSIST_PARTIAL: %w", err)
	}
	if c.S3.Secure, err = strconv.ParseBool(get("S3_SECURE", "true")); err != nil {
		return nil, fmt.Errorf("S3_SECURE: %w", err)
	}
	if c.AdminChatIDs, err = chatIDs(get("TELEGRAM_ADMIN_CHAT_IDS", "")); err != nil {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_IDS: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER %q: want sqlite or postgres", c.DBDriver)
	}
	switch c.STTProvider {
	case "whisper", "deepgram":
	default:
		return fmt.Errorf("STT_PROVIDER %q: want whisper or deepgram", c.STTProvider)
	}
	switch c.TTSProvider {
	case "elevenlabs", "openai":
	default:
		return fmt.Errorf("TTS_PROVIDER %q: want elevenlabs or openai", c.TTSProvider)
	}
	if c.ListenTimeout <= 0 {
		return fmt.Errorf("LISTEN_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func seconds(v string) (time.Duration, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("negative value %v", f)
	}
	return time.Duration(f * float64(time.Second)), nil
}

func chatIDs(v string) ([]int64, error) {
	if v == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
