package main

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	DBPath            string `yaml:"db_path"`
	StoreRoot         string `yaml:"store_root"`
	OutputContainer   string `yaml:"output_container"`
	TemplateContainer string `yaml:"template_container"`

	// Employee number injected into _SELF intents. Stands in for a real
	// authenticated identity.
	CurrentUserEmployeeNumber string `yaml:"current_user_employee_number"`

	SlackBotToken string `yaml:"slack_bot_token"`
	SlackAppToken string `yaml:"slack_app_token"`

	RetentionSchedule string `yaml:"retention_schedule"`
	RetentionDays     int    `yaml:"retention_days"`
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.StoreRoot, "STORE_ROOT")
	envOverride(&cfg.OutputContainer, "OUTPUT_CONTAINER")
	envOverride(&cfg.TemplateContainer, "TEMPLATE_CONTAINER")
	envOverride(&cfg.CurrentUserEmployeeNumber, "CURRENT_USER_EMPLOYEE_NUMBER")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.RetentionSchedule, "RETENTION_SCHEDULE")
	envOverrideInt(&cfg.RetentionDays, "RETENTION_DAYS")

	// Defaults
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./hrdocbot.db"
	}
	if cfg.StoreRoot == "" {
		cfg.StoreRoot = "./documents"
	}
	if cfg.OutputContainer == "" {
		cfg.OutputContainer = "output"
	}
	if cfg.TemplateContainer == "" {
		cfg.TemplateContainer = "templates"
	}
	if cfg.CurrentUserEmployeeNumber == "" {
		cfg.CurrentUserEmployeeNumber = "102938"
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 30
	}

	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when llm_provider=anthropic")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("openai_api_key is required when llm_provider=openai")
		}
	default:
		log.Fatalf("llm_provider must be 'anthropic' or 'openai', got '%s'", cfg.LLMProvider)
	}

	if cfg.RetentionDays < 1 {
		log.Fatalf("invalid retention_days '%d': must be >= 1", cfg.RetentionDays)
	}
	if (cfg.SlackBotToken == "") != (cfg.SlackAppToken == "") {
		log.Fatalf("slack_bot_token and slack_app_token must be set together")
	}

	return cfg
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
