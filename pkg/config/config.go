package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Node        NodeConfig        `yaml:"node"`
	Gossip      GossipConfig      `yaml:"gossip"`
	Seeds       []string          `yaml:"seeds"`
	Replication ReplicationConfig `yaml:"replication"`
	Security    SecurityConfig    `yaml:"security"`
}

type NodeConfig struct {
	ID          string `yaml:"id"`
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

type SecurityConfig struct {
	Enabled bool   `yaml:"enabled"`
	CaCert  string `yaml:"ca_cert"`
	CaKey   string `yaml:"ca_key"`
	Cert    string `yaml:"cert"`
	Key     string `yaml:"key"`
}

type GossipConfig struct {
	Protocol            string `yaml:"protocol"`
	AntiEntropyInterval int    `yaml:"interval"`
	Fanout              int    `yaml:"fanout"`
	Retries             int    `yaml:"retries"`
}

type ReplicationConfig struct {
	// how often pending deltas are shipped, milliseconds
	DeltaIntervalMs int `yaml:"delta_interval_ms"`
	// deltas per gossip round; the rest waits for the next round
	MaxDeltasPerRound int `yaml:"max_deltas_per_round"`
	// every Nth round sends full states instead of deltas, catching
	// up replicas that missed delta windows
	FullStateEvery int `yaml:"full_state_every"`
	InitialShards  int `yaml:"initial_shards"`
}

func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
