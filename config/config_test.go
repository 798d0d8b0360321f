package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/social-strategist/internal/llm"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"LLM_PROVIDER", "TEXT_MODEL", "IMAGE_MODEL", "PORT", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, llm.DefaultTextModel, cfg.TextModel)
	assert.Equal(t, llm.DefaultImageModel, cfg.ImageModel)
	assert.Equal(t, 3000, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("PORT", "8080")
	t.Setenv("R2_ACCOUNT_ID", "acct")
	t.Setenv("R2_BUCKET_NAME", "media")

	cfg := LoadConfig()
	assert.Equal(t, ProviderAnthropic, cfg.LLMProvider)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "acct", cfg.R2().AccountID)
	assert.Equal(t, "media", cfg.R2().BucketName)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"gemini without key", Config{LLMProvider: ProviderGemini}, "GEMINI_API_KEY"},
		{"anthropic without key", Config{LLMProvider: ProviderAnthropic}, "ANTHROPIC_API_KEY"},
		{"unknown provider", Config{LLMProvider: "openai"}, "LLM_PROVIDER"},
		{"gemini ok", Config{LLMProvider: ProviderGemini, GeminiKey: "k"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateServer(t *testing.T) {
	base := Config{LLMProvider: ProviderGemini, GeminiKey: "k", Port: 3000}
	assert.NoError(t, base.ValidateServer())

	halfSlack := base
	halfSlack.SlackToken = "xoxb-1"
	assert.ErrorContains(t, halfSlack.ValidateServer(), "SLACK_SIGNING_SECRET")

	r2 := base
	r2.R2AccountID, r2.R2AccessKey, r2.R2SecretKey, r2.R2BucketName = "a", "b", "c", "d"
	assert.ErrorContains(t, r2.ValidateServer(), "R2_PUBLIC_URL")

	badPort := base
	badPort.Port = 0
	assert.Error(t, badPort.ValidateServer())
}

func TestLoadPersona(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
brandName: " Lumen Coffee "
industry: Food & Beverage
targetAudience: Remote workers
tone: Witty
contentPillars:
  - Brewing Tips
  - Brewing Tips
  - Behind the Scenes
brandVoiceGuide:
  tone: Playful
  dos: [use puns]
`), 0o600))

	p, err := LoadPersona(path)
	require.NoError(t, err)
	assert.Equal(t, "Lumen Coffee", p.BrandName)
	assert.Equal(t, []string{"Brewing Tips", "Behind the Scenes"}, p.ContentPillars)
	require.NotNil(t, p.BrandVoiceGuide)
	assert.Equal(t, []string{"use puns"}, p.BrandVoiceGuide.Dos)
}

func TestLoadPersonaErrors(t *testing.T) {
	_, err := LoadPersona(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte("industry: Tea\n"), 0o600))
	_, err = LoadPersona(path)
	assert.ErrorContains(t, err, "brandName")
}
