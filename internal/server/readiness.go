package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReadinessState string

const (
	ReadinessStateReady    ReadinessState = "ready"
	ReadinessStateNotReady ReadinessState = "not_ready"
	ReadinessStateOptional ReadinessState = "optional"
)

type ReadinessIssue struct {
	ID     string         `json:"id"`
	Status ReadinessState `json:"status"`
}

type ReadinessResponse struct {
	SystemState ReadinessState   `json:"system_state"`
	Issues      []ReadinessIssue `json:"issues"`
}

// Healthz is liveness only.
// GET /healthz
func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports whether the process can take payment traffic. Database and
// gateway credentials are required; storage and mail are flagged but do not
// gate readiness, since order creation works without them.
// GET /readyz
func (s *Server) Readyz(c *gin.Context) {
	issues := []ReadinessIssue{}
	ready := true

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		ready = false
		issues = append(issues, ReadinessIssue{ID: "database_reachable", Status: ReadinessStateNotReady})
	} else {
		issues = append(issues, ReadinessIssue{ID: "database_reachable", Status: ReadinessStateReady})
	}

	if s.cfg.Gateway.KeyID == "" || s.cfg.Gateway.KeySecret == "" {
		ready = false
		issues = append(issues, ReadinessIssue{ID: "gateway_credentials", Status: ReadinessStateNotReady})
	} else {
		issues = append(issues, ReadinessIssue{ID: "gateway_credentials", Status: ReadinessStateReady})
	}

	storageState := ReadinessStateOptional
	if s.cfg.StorageEnabled() {
		storageState = ReadinessStateReady
	}
	issues = append(issues, ReadinessIssue{ID: "invoice_storage", Status: storageState})

	mailState := ReadinessStateOptional
	if s.cfg.MailEnabled() {
		mailState = ReadinessStateReady
	}
	issues = append(issues, ReadinessIssue{ID: "invoice_mail", Status: mailState})

	state := ReadinessStateReady
	status := http.StatusOK
	if !ready {
		state = ReadinessStateNotReady
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ReadinessResponse{SystemState: state, Issues: issues})
}
