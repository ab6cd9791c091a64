package app

import (
	"context"

	"github.com/doeshing/nbai-go/internal/application/notebook"
	"github.com/doeshing/nbai-go/internal/application/suggest"
	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/infrastructure/ai"
	"github.com/doeshing/nbai-go/internal/infrastructure/config"
	"github.com/doeshing/nbai-go/internal/infrastructure/storage"
	"github.com/doeshing/nbai-go/internal/pkg/logger"
	"github.com/doeshing/nbai-go/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	NotebookService *notebook.Service
	SuggestService  *suggest.Service
	Store           *notebook.Store
	Gateway         *notebook.Gateway
	Memory          *suggest.Memory
	ConfigProvider  ports.ConfigProvider
	ConfigLoader    *config.FileLoader
	Config          domain.Config
	KV              ports.KeyValueStore
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	kv := openStore(cfg)

	store := notebook.NewStore()
	gateway := notebook.NewGateway(kv, log)

	memory := suggest.NewMemory(kv, log, cfg.Suggestions)
	suggestService := suggest.NewService(memory, suggest.NewSelector(), ai.NewFactory(), log, cfg)

	notebookService := notebook.NewService(
		store,
		gateway,
		log,
		cfg.Suggestions,
		suggestService.DetectTrigger,
		suggestService.Suggest,
	)

	return &Container{
		NotebookService: notebookService,
		SuggestService:  suggestService,
		Store:           store,
		Gateway:         gateway,
		Memory:          memory,
		ConfigProvider:  cfgLoader,
		ConfigLoader:    cfgLoader,
		Config:          cfg,
		KV:              kv,
	}, nil
}

func openStore(cfg domain.Config) ports.KeyValueStore {
	if cfg.Storage.Backend == "file" {
		return storage.NewFileStore("")
	}
	return storage.NewSQLiteStore(cfg.Storage.Dir)
}
