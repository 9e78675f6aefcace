package ratelimit

import (
	"testing"
)

func TestMatchEndpoint_HealthUnlimited(t *testing.T) {
	config := MatchEndpoint("/health", "GET", DefaultEndpointConfigs())
	if config == nil {
		t.Fatal("Expected health check to match")
	}
	if config.Limit != 0 {
		t.Errorf("Expected unlimited (0) for health check, got %d", config.Limit)
	}

	// Only GET is special-cased
	if MatchEndpoint("/health", "POST", DefaultEndpointConfigs()) != nil {
		t.Error("Expected POST /health to fall through to the default limit")
	}
}

func TestMatchEndpoint_ExactMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()

	config := MatchEndpoint("/api/search", "POST", configs)
	if config == nil {
		t.Fatal("Expected POST /api/search to match")
	}
	if config.Limit != 30 {
		t.Errorf("Expected limit 30 for POST /api/search, got %d", config.Limit)
	}

	config = MatchEndpoint("/api/auth/login", "POST", configs)
	if config == nil {
		t.Fatal("Expected POST /api/auth/login to match")
	}
	if config.Limit != 20 {
		t.Errorf("Expected limit 20 for POST /api/auth/login, got %d", config.Limit)
	}
}

func TestMatchEndpoint_PrefixMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()

	// Delete by ID matches the "/api/exclusions/" prefix entry
	config := MatchEndpoint("/api/exclusions/123e4567-e89b-12d3-a456-426614174000", "DELETE", configs)
	if config == nil {
		t.Fatal("Expected DELETE /api/exclusions/{id} to match by prefix")
	}
	if config.Limit != 100 {
		t.Errorf("Expected limit 100 for exclusion delete, got %d", config.Limit)
	}

	// Method must match too
	if MatchEndpoint("/api/exclusions/123e4567-e89b-12d3-a456-426614174000", "GET", configs) != nil {
		t.Error("Expected GET on the delete path to fall through to the default limit")
	}
}

func TestMatchEndpoint_NoMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()

	if MatchEndpoint("/api/searches", "GET", configs) != nil {
		t.Error("Expected read endpoints to use the default limit")
	}
	if MatchEndpoint("/api/exclusions", "GET", configs) != nil {
		t.Error("Expected exclusion listing to use the default limit")
	}
}
