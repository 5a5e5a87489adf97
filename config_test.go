package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"DB_PATH", "STORE_ROOT", "OUTPUT_CONTAINER", "TEMPLATE_CONTAINER",
		"CURRENT_USER_EMPLOYEE_NUMBER", "SLACK_BOT_TOKEN", "SLACK_APP_TOKEN",
		"RETENTION_SCHEDULE", "RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	writeConfigFile(t, "anthropic_api_key: test-key\n")

	cfg := LoadConfig()

	if cfg.LLMProvider != "anthropic" {
		t.Fatalf("default provider = %s, want anthropic", cfg.LLMProvider)
	}
	if cfg.DBPath != "./hrdocbot.db" {
		t.Fatalf("default db_path = %s", cfg.DBPath)
	}
	if cfg.OutputContainer != "output" || cfg.TemplateContainer != "templates" {
		t.Fatalf("default containers = %s/%s", cfg.OutputContainer, cfg.TemplateContainer)
	}
	if cfg.CurrentUserEmployeeNumber != "102938" {
		t.Fatalf("default current user = %s", cfg.CurrentUserEmployeeNumber)
	}
	if cfg.RetentionDays != 30 {
		t.Fatalf("default retention_days = %d", cfg.RetentionDays)
	}
	if cfg.SlackConfigured() {
		t.Fatal("slack should not be configured by default")
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)
	writeConfigFile(t, "llm_provider: openai\nopenai_api_key: file-key\nllm_model: file-model\n")
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("RETENTION_DAYS", "7")

	cfg := LoadConfig()

	if cfg.LLMProvider != "openai" {
		t.Fatalf("provider = %s, want openai", cfg.LLMProvider)
	}
	if cfg.LLMModel != "env-model" {
		t.Fatalf("env must override yaml, model = %s", cfg.LLMModel)
	}
	if cfg.RetentionDays != 7 {
		t.Fatalf("retention_days = %d, want 7", cfg.RetentionDays)
	}
}

func TestLoadConfigSlackConfigured(t *testing.T) {
	clearConfigEnv(t)
	writeConfigFile(t, "anthropic_api_key: test-key\nslack_bot_token: xoxb-1\nslack_app_token: xapp-1\n")

	cfg := LoadConfig()
	if !cfg.SlackConfigured() {
		t.Fatal("expected slack to be configured")
	}
}
