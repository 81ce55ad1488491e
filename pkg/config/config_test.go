package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Set up test environment variables
	os.Setenv("botToken", "test-token")
	os.Setenv("PORT", "3001")
	os.Setenv("enviroment", "test")
	defer func() {
		os.Unsetenv("botToken")
		os.Unsetenv("PORT")
		os.Unsetenv("enviroment")
	}()

	// Reset global config
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("enviroment")
}

func TestGet(t *testing.T) {
	resetForTesting()

	// Get should create a new config if none exists
	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	// Get should return the same config on subsequent calls
	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	// Clear all environment variables
	os.Unsetenv("botToken")
	os.Unsetenv("devGuildId")
	os.Unsetenv("mongodbUrl")
	os.Unsetenv("dbName")
	os.Unsetenv("MQTT_Host")
	os.Unsetenv("MQTT_Port")
	os.Unsetenv("PORT")
	os.Unsetenv("enviroment")

	resetForTesting()
	config, _ := Load()

	// Check default values
	if config.MongoDBURL != "mongodb://localhost:27017" {
		t.Errorf("MongoDBURL default = %v, want %v", config.MongoDBURL, "mongodb://localhost:27017")
	}

	if config.DBName != "Stachio" {
		t.Errorf("DBName default = %v, want %v", config.DBName, "Stachio")
	}

	if config.MQTTHost != "localhost" {
		t.Errorf("MQTTHost default = %v, want %v", config.MQTTHost, "localhost")
	}

	if config.MQTTPort != "1883" {
		t.Errorf("MQTTPort default = %v, want %v", config.MQTTPort, "1883")
	}

	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}

	if config.Environment != "dev" {
		t.Errorf("Environment default = %v, want %v", config.Environment, "dev")
	}

	if config.ScanBatchSize != 10 {
		t.Errorf("ScanBatchSize default = %v, want %v", config.ScanBatchSize, 10)
	}

	if config.ScanDelayMs != 1500 {
		t.Errorf("ScanDelayMs default = %v, want %v", config.ScanDelayMs, 1500)
	}

	if config.SweepIntervalMin != 15 {
		t.Errorf("SweepIntervalMin default = %v, want %v", config.SweepIntervalMin, 15)
	}
}

func TestGetEnvInt(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	defer os.Unsetenv("TEST_INT")

	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt() = %v, want %v", got, 42)
	}

	if got := getEnvInt("NON_EXISTENT_INT", 7); got != 7 {
		t.Errorf("getEnvInt() = %v, want %v", got, 7)
	}

	os.Setenv("TEST_INT", "not-a-number")
	if got := getEnvInt("TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt() with invalid value = %v, want fallback %v", got, 7)
	}
}

func TestGetEnvList(t *testing.T) {
	os.Setenv("TEST_LIST", "111, 222,333")
	defer os.Unsetenv("TEST_LIST")

	got := getEnvList("TEST_LIST")
	want := []string{"111", "222", "333"}
	if len(got) != len(want) {
		t.Fatalf("getEnvList() returned %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("getEnvList()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := getEnvList("NON_EXISTENT_LIST"); len(got) != 0 {
		t.Errorf("getEnvList() for missing var = %v, want empty", got)
	}
}

func TestIsDev(t *testing.T) {
	resetForTesting()
	os.Setenv("devUserIds", "100,200")
	defer os.Unsetenv("devUserIds")

	config, _ := Load()

	if !config.IsDev("100") {
		t.Error("IsDev(\"100\") should return true for a listed user")
	}

	if config.IsDev("300") {
		t.Error("IsDev(\"300\") should return false for an unlisted user")
	}
}
