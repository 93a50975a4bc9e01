package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// Polling cadence handed to clients; the server only documents these,
	// the chatclient package consumes them as defaults.
	ConversationPollSeconds int64
	MessagePollSeconds      int64
	UnreadPollSeconds       int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		FirebaseProject:         getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:             getEnv("ENVIRONMENT", "development"),
		ConversationPollSeconds: getEnvAsInt64("CONVERSATION_POLL_SECONDS", 5),
		MessagePollSeconds:      getEnvAsInt64("MESSAGE_POLL_SECONDS", 2),
		UnreadPollSeconds:       getEnvAsInt64("UNREAD_POLL_SECONDS", 15),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
