package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeInitialize EventType = "node_initialize"
	EventNodeRelease    EventType = "node_release"
	EventNodeCompute    EventType = "node_compute"
	EventConnect        EventType = "connect"
	EventDisconnect     EventType = "disconnect"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent represents a lifecycle change of a node.
type NodeEvent struct {
	EventBase
	NodePath string `json:"node_path"`
	NodeType string `json:"node_type"`
	Err      error  `json:"-"`
}

// ComputeEvent represents one compute call.
type ComputeEvent struct {
	EventBase
	NodePath string        `json:"node_path"`
	NodeType string        `json:"node_type"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
}

// ConnectionEvent represents a connection being made or broken.
type ConnectionEvent struct {
	EventBase
	From string `json:"from"`
	To   string `json:"to"`
}

// LifecycleHooks defines callbacks for host observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnInitialize func(context.Context, *NodeEvent)
	OnRelease    func(context.Context, *NodeEvent)
	OnCompute    func(context.Context, *ComputeEvent)
	OnConnect    func(context.Context, *ConnectionEvent)
}
