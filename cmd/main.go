package main

import (
	"flag"
	"os"

	"deltaset/pkg/config"
	"deltaset/pkg/storage"
	"deltaset/pkg/util/logging"
)

func main() {
	configPath := flag.String("config", "cmd/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Read(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}
		cfg = config.Default()
	}

	cfg.PopulateDefaults()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logging.InitDefault(cfg.Node.ID)
	log := logging.Component("main")

	engine := storage.NewEngine(cfg.Replication.InitialShards)
	store := storage.NewStore(cfg.Node.ID, engine)

	// replication transport plugs in here
	log.Info("store ready",
		"bind", cfg.Node.BindAddress,
		"port", cfg.Node.Port,
		"keys", len(store.Keys()),
	)
}
