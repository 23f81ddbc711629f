package services

import (
	"fmt"
	"log"

	"github.com/mustaphalimar/prepilot/internal/config"
	"github.com/mustaphalimar/prepilot/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a deep health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Identity     string            `json:"identity,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck verifies database connectivity and, for the remote provider,
// identity-provider reachability. The HTTP /health route stays shallow;
// this runs from cmd/healthcheck.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Printf("Health check failed - database ping: %v", err)
	} else {
		result.Database = "ok"
		result.Details["environment"] = cfg.Env
	}

	if cfg.IdentityProvider == "authorizer" {
		if err := utils.PingIdentityProvider(cfg.AuthzURL); err != nil {
			result.Status = "unhealthy"
			result.Identity = "unreachable"
			if result.ErrorMessage == "" {
				result.ErrorMessage = fmt.Sprintf("Identity provider ping failed: %v", err)
			} else {
				result.ErrorMessage += fmt.Sprintf("; identity provider ping failed: %v", err)
			}
			log.Printf("Health check failed - identity provider ping: %v", err)
		} else {
			result.Identity = "ok"
			result.Details["identity_url"] = cfg.AuthzURL
		}
	}

	return result
}
