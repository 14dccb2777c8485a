package models

import (
	"net"
	"strconv"
)

// Node is one cluster member whose temperature is polled. Immutable after load.
type Node struct {
	Name    string `json:"name" mapstructure:"name"`
	Slot    int    `json:"slot" mapstructure:"slot"`
	Address string `json:"address" mapstructure:"address"`
	Port    int    `json:"port" mapstructure:"port"`
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
}

// HostPort returns the "address:port" pair used to reach the node's agent.
func (n Node) HostPort() string {
	return net.JoinHostPort(n.Address, strconv.Itoa(n.Port))
}

// EnabledNodes filters out disabled nodes, preserving order.
func EnabledNodes(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Enabled {
			out = append(out, n)
		}
	}
	return out
}
