package handler

import (
	"time"

	"registry-backend/internal/match"
	"registry-backend/internal/service"
	"registry-backend/internal/session"
)

// Package-level collaborators, wired once from main.
var (
	gate          *session.Gate
	changeClient  *service.ChangeClient
	tokenSecret   string
	tokenTTL      time.Duration
	defaultPolicy match.Policy
	defaultThresh int
)

type Options struct {
	Gate          *session.Gate
	ChangeClient  *service.ChangeClient
	TokenSecret   string
	TokenTTL      time.Duration
	DefaultPolicy match.Policy
	Threshold     int
}

func Init(opts Options) {
	gate = opts.Gate
	changeClient = opts.ChangeClient
	tokenSecret = opts.TokenSecret
	tokenTTL = opts.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	defaultPolicy = opts.DefaultPolicy
	if defaultPolicy == "" {
		defaultPolicy = match.PolicyFuzzy
	}
	defaultThresh = opts.Threshold
}
