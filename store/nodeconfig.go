package store

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// NodeConfigStore persists the config the gateway last pushed to each
// paired RSN, keyed by node_id (namespace tgw_cfg/cfgNN), so a CONFIG can
// be re-sent from the gateway side after a gateway restart.
type NodeConfigStore struct {
	mu   sync.Mutex
	path string
	data map[string]RSNConfig
}

func NewNodeConfigStore(path string) *NodeConfigStore {
	return &NodeConfigStore{path: path, data: make(map[string]RSNConfig)}
}

func (n *NodeConfigStore) load() error {
	data, err := os.ReadFile(n.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	m := make(map[string]RSNConfig)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return err
	}
	n.data = m
	return nil
}

func (n *NodeConfigStore) persist() error {
	data, err := yaml.Marshal(n.data)
	if err != nil {
		return err
	}
	return os.WriteFile(n.path, data, 0o644)
}

// Load returns the stored config for nodeID and true, or false if no
// config has ever been saved for that node.
func (n *NodeConfigStore) Load(nodeID uint8) (RSNConfig, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_ = n.load()
	cfg, ok := n.data[NodeConfigKey(nodeID)]
	return cfg, ok
}

// Save records the config pushed to nodeID, overwriting any prior entry.
func (n *NodeConfigStore) Save(nodeID uint8, cfg RSNConfig) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_ = n.load()
	if n.data == nil {
		n.data = make(map[string]RSNConfig)
	}
	n.data[NodeConfigKey(nodeID)] = cfg
	return n.persist()
}
