package config

import (
	"deltaset/pkg/structs"

	"github.com/google/uuid"
)

var knownProtocols = structs.NewSet("SWIM")

var defaultNode = NodeConfig{
	ID:          "node",
	BindAddress: "127.0.0.1",
	Port:        9090,
}

var defaultGossip = GossipConfig{
	Protocol:            "SWIM",
	AntiEntropyInterval: 500,
	Fanout:              3,
	Retries:             3,
}

var defaultReplication = ReplicationConfig{
	DeltaIntervalMs:   200,
	MaxDeltasPerRound: 64,
	FullStateEvery:    10,
	InitialShards:     64,
}

var defaultSecurity = SecurityConfig{
	Enabled: false,
}

func Default() *Config {
	return &Config{
		Node:        defaultNode,
		Gossip:      defaultGossip,
		Seeds:       []string{},
		Replication: defaultReplication,
		Security:    defaultSecurity,
	}
}

func (c *NodeConfig) PopulateDefaults() {
	if c.BindAddress == "" {
		c.BindAddress = defaultNode.BindAddress
	}

	if c.Port == 0 {
		c.Port = defaultNode.Port
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
}

func (c *GossipConfig) PopulateDefaults() {
	if c.Protocol == "" {
		c.Protocol = defaultGossip.Protocol
	}

	if c.AntiEntropyInterval == 0 {
		c.AntiEntropyInterval = defaultGossip.AntiEntropyInterval
	}

	if c.Fanout == 0 {
		c.Fanout = defaultGossip.Fanout
	}

	if c.Retries == 0 {
		c.Retries = defaultGossip.Retries
	}
}

func (c *ReplicationConfig) PopulateDefaults() {
	if c.DeltaIntervalMs == 0 {
		c.DeltaIntervalMs = defaultReplication.DeltaIntervalMs
	}

	if c.MaxDeltasPerRound == 0 {
		c.MaxDeltasPerRound = defaultReplication.MaxDeltasPerRound
	}

	if c.FullStateEvery == 0 {
		c.FullStateEvery = defaultReplication.FullStateEvery
	}

	if c.InitialShards == 0 {
		c.InitialShards = defaultReplication.InitialShards
	}
}

func (c *SecurityConfig) PopulateDefaults() {
	if !c.Enabled {
		return
	}
}

func (c *Config) PopulateDefaults() {
	c.Node.PopulateDefaults()
	c.Gossip.PopulateDefaults()
	c.Replication.PopulateDefaults()
	c.Security.PopulateDefaults()
}
