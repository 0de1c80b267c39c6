package storage

import "os"

// Mode selects the storage backend
type Mode string

const (
	ModeLocal  Mode = "local"  // DynamoDB Local
	ModeAWS    Mode = "aws"    // DynamoDB in AWS
	ModeSQLite Mode = "sqlite" // single-file database
	ModeMemory Mode = "memory" // process memory, lost on restart
)

// Config holds storage configuration
type Config struct {
	Mode            Mode
	Endpoint        string // for local mode
	Region          string
	AssistantsTable string
	PhonesTable     string
	SQLitePath      string
}

// LoadConfig loads storage config from environment
func LoadConfig() Config {
	mode := Mode(getEnv("STORE_MODE", string(ModeMemory)))
	switch mode {
	case ModeLocal, ModeAWS, ModeSQLite:
	default:
		mode = ModeMemory
	}

	return Config{
		Mode:            mode,
		Endpoint:        getEnv("DYNAMO_ENDPOINT", "http://localhost:8000"),
		Region:          getEnv("DYNAMO_REGION", "us-east-1"),
		AssistantsTable: getEnv("DYNAMO_ASSISTANTS_TABLE", "opsmind-user-assistants"),
		PhonesTable:     getEnv("DYNAMO_PHONES_TABLE", "opsmind-user-phones"),
		SQLitePath:      getEnv("SQLITE_PATH", "./opsmind.db"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
