package config

import (
	"os"
	"testing"
)

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test_value")
	defer os.Unsetenv("TEST_VAR")

	result := getEnv("TEST_VAR", "default_value")
	if result != "test_value" {
		t.Errorf("getEnv() = %s, want %s", result, "test_value")
	}

	result = getEnv("NON_EXISTENT_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}

	os.Setenv("EMPTY_VAR", "")
	defer os.Unsetenv("EMPTY_VAR")

	result = getEnv("EMPTY_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}
}

func TestGetEnvInt(t *testing.T) {
	os.Setenv("TEST_INT", "120")
	defer os.Unsetenv("TEST_INT")

	if got := getEnvInt("TEST_INT", 60); got != 120 {
		t.Errorf("getEnvInt() = %d, want 120", got)
	}
	if got := getEnvInt("MISSING_INT", 60); got != 60 {
		t.Errorf("getEnvInt() = %d, want default 60", got)
	}

	os.Setenv("BAD_INT", "sixty")
	defer os.Unsetenv("BAD_INT")
	if got := getEnvInt("BAD_INT", 60); got != 60 {
		t.Errorf("getEnvInt() with bad value = %d, want default 60", got)
	}
}

func TestLoad(t *testing.T) {
	testVars := map[string]string{
		"SOURCE_BACKEND":          "s3",
		"SMB_SERVER":              "fileserver01",
		"SMB_SHARE":               "scans",
		"SMB_USER":                "svc-sync",
		"SMB_PASSWORD":            "secret",
		"SMB_DOMAIN":              "CORP",
		"POST_URL":                "https://ingest.example.com/files",
		"CF_ACCESS_CLIENT_ID":     "client-id",
		"CF_ACCESS_CLIENT_SECRET": "client-secret",
		"WATERMARK_FILE":          "/var/lib/smbsync/last_run_timestamp.json",
	}

	originalVars := map[string]string{}
	for key := range testVars {
		originalVars[key] = os.Getenv(key)
	}
	defer func() {
		for key, value := range originalVars {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	for key, value := range testVars {
		os.Setenv(key, value)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.SourceBackend != "s3" {
		t.Errorf("config.SourceBackend = %s, want s3", config.SourceBackend)
	}
	if config.SMBServer != testVars["SMB_SERVER"] {
		t.Errorf("config.SMBServer = %s, want %s", config.SMBServer, testVars["SMB_SERVER"])
	}
	if config.SMBShare != testVars["SMB_SHARE"] {
		t.Errorf("config.SMBShare = %s, want %s", config.SMBShare, testVars["SMB_SHARE"])
	}
	if config.SMBUser != testVars["SMB_USER"] {
		t.Errorf("config.SMBUser = %s, want %s", config.SMBUser, testVars["SMB_USER"])
	}
	if config.SMBPassword != testVars["SMB_PASSWORD"] {
		t.Errorf("config.SMBPassword = %s, want %s", config.SMBPassword, testVars["SMB_PASSWORD"])
	}
	if config.SMBDomain != testVars["SMB_DOMAIN"] {
		t.Errorf("config.SMBDomain = %s, want %s", config.SMBDomain, testVars["SMB_DOMAIN"])
	}
	if config.PostURL != testVars["POST_URL"] {
		t.Errorf("config.PostURL = %s, want %s", config.PostURL, testVars["POST_URL"])
	}
	if config.CFAccessClientID != testVars["CF_ACCESS_CLIENT_ID"] {
		t.Errorf("config.CFAccessClientID = %s, want %s", config.CFAccessClientID, testVars["CF_ACCESS_CLIENT_ID"])
	}
	if config.CFAccessClientSecret != testVars["CF_ACCESS_CLIENT_SECRET"] {
		t.Errorf("config.CFAccessClientSecret = %s, want %s", config.CFAccessClientSecret, testVars["CF_ACCESS_CLIENT_SECRET"])
	}
	if config.WatermarkFile != testVars["WATERMARK_FILE"] {
		t.Errorf("config.WatermarkFile = %s, want %s", config.WatermarkFile, testVars["WATERMARK_FILE"])
	}

	for key := range testVars {
		os.Unsetenv(key)
	}

	config, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.SourceBackend != "smb" {
		t.Errorf("config.SourceBackend = %s, want default smb", config.SourceBackend)
	}
	if config.PostURL != "" {
		t.Errorf("config.PostURL = %s, want empty", config.PostURL)
	}
	if config.HTTPTimeoutSeconds != 60 {
		t.Errorf("config.HTTPTimeoutSeconds = %d, want default 60", config.HTTPTimeoutSeconds)
	}
	if config.WatermarkFile != "" {
		t.Errorf("config.WatermarkFile = %s, want empty", config.WatermarkFile)
	}
}
