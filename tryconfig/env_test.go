// env_test.go — verification of environment detection and struct-tag loading.
package tryconfig

import "testing"

func TestCreateEnvConfig_FallsBackToDevelopment(t *testing.T) {
	t.Setenv("TRYERR_ENV", "")
	t.Setenv("APP_ENV", "")

	envs := map[string]Config{
		"development": {DefaultErrorType: "Dev"},
		"production":  {DefaultErrorType: "Prod"},
	}
	got := CreateEnvConfig(envs)
	if got.DefaultErrorType != "Dev" {
		t.Fatalf("expected development fallback, got %q", got.DefaultErrorType)
	}
}

func TestCreateEnvConfig_SelectsDetectedEnvironment(t *testing.T) {
	t.Setenv("TRYERR_ENV", "production")

	envs := map[string]Config{
		"development": {DefaultErrorType: "Dev"},
		"production":  {DefaultErrorType: "Prod"},
	}
	got := CreateEnvConfig(envs)
	if got.DefaultErrorType != "Prod" {
		t.Fatalf("expected production selection, got %q", got.DefaultErrorType)
	}
}

func TestCreateEnvConfig_ZeroValueWhenNothingMatches(t *testing.T) {
	t.Setenv("TRYERR_ENV", "staging")

	envs := map[string]Config{"production": {DefaultErrorType: "Prod"}}
	got := CreateEnvConfig(envs)
	if got.DefaultErrorType != "" {
		t.Fatalf("expected zero-value Config, got %q", got.DefaultErrorType)
	}
}

func TestLoadFromEnv_ReadsPrefixedVars(t *testing.T) {
	t.Setenv("TRYERR_STACK_TRACE_LIMIT", "10")
	t.Setenv("TRYERR_DEFAULT_ERROR_TYPE", "FromEnv")

	cfg, err := LoadFromEnv("TRYERR_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StackTraceLimit != 10 {
		t.Fatalf("expected StackTraceLimit=10, got %d", cfg.StackTraceLimit)
	}
	if cfg.DefaultErrorType != "FromEnv" {
		t.Fatalf("expected DefaultErrorType=FromEnv, got %q", cfg.DefaultErrorType)
	}
}
