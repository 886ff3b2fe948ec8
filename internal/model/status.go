package model

import "time"

// StatusRecord is a derived lifecycle result flattened for sinks.
type StatusRecord struct {
	ChainID      uint64   `json:"chain_id"`
	PoolAddress  string   `json:"pool_address"`
	Stage        string   `json:"stage"`
	History      []string `json:"history"`
	Role         string   `json:"role,omitempty"`
	Actions      []string `json:"actions"`
	Undetermined []string `json:"undetermined,omitempty"`
	ObservedAt   string   `json:"observed_at"`
}

// StageTransition records the first observation of a pool entering a stage.
type StageTransition struct {
	ChainID     uint64    `json:"chain_id"`
	PoolAddress string    `json:"pool_address"`
	Stage       string    `json:"stage"`
	ObservedAt  time.Time `json:"observed_at"`
}
