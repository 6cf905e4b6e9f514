package main

import (
	"log"

	"github.com/jmartin/resume-dash/internal/api"
	"github.com/jmartin/resume-dash/internal/config"
	"github.com/jmartin/resume-dash/internal/localstore"
)

// cliContext bundles the resolved configuration the commands share.
type cliContext struct {
	cfg    *config.Config
	store  *localstore.Store
	client *api.Client
}

// newCLIContext resolves config file, environment, stored client state, and
// flags into a ready API client.
func newCLIContext() (*cliContext, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	cfg.MergeEnv()
	if flagServer != "" {
		cfg.ServerURL = flagServer
	}

	path, err := localstore.DefaultPath()
	if err != nil {
		log.Printf("[cli] no config dir, client state disabled: %v", err)
	}
	store := localstore.Open(path)

	userID, err := config.ResolveUserID(flagUserID, cfg, store)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.ResolvedServerURL(), userID, config.ResolveAPIKey(cfg, store))
	return &cliContext{cfg: cfg, store: store, client: client}, nil
}
