package config

import "time"

// Classifier provider names.
const (
	ProviderKeyword  = "keyword"
	ProviderGemini   = "gemini"
	ProviderTNVEDAPI = "tnved-api"
)

func defaults() Config {
	return Config{
		Port:     8080,
		LogLevel: "info",
		DB: DB{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "logihub",
			SSLMode: "disable",
		},
		TariffStore: TariffStore{
			Timeout: 30 * time.Second,
		},
		Classifier: Classifier{
			Provider:      ProviderKeyword,
			GeminiBaseURL: "https://generativelanguage.googleapis.com",
			GeminiModel:   "gemini-2.0-flash",
			TNVEDBaseURL:  "https://api.tnved.info",
			CacheSize:     1024,
			Retry: Retry{
				MaxAttempts: 3,
				BaseDelay:   500 * time.Millisecond,
				MaxDelay:    5 * time.Second,
			},
		},
		Kafka: Kafka{
			Brokers: []string{"localhost:9092"},
			Topic:   "quote-requests",
			GroupID: "logihub-worker",
		},
		RateLimit: RateLimit{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
		Pprof: Pprof{
			Addr: "127.0.0.1:6060",
		},
	}
}
