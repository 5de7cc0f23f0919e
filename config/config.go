package config

import (
	"fmt"
	"os"
)

// Config holds everything the server needs at boot. A missing value is a
// misconfiguration and fails startup, never a request.
type Config struct {
	Port        string
	MongoURI    string
	TokenSecret string
	StripeKey   string
}

func Load() (Config, error) {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		MongoURI:    os.Getenv("MONGODB_URI"),
		TokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		StripeKey:   os.Getenv("STRIPE_SECRET_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.StripeKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	return cfg, nil
}
