package domain

import "errors"

// ErrNodeNotFound is returned when a node path does not exist in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrNodeExists is returned when a node is added under a path already in use.
var ErrNodeExists = errors.New("node already exists")

// ErrNodeTypeNotFound is returned when no node type is registered under a name.
var ErrNodeTypeNotFound = errors.New("node type not found")

// ErrAttributeNotFound is returned when a node has no attribute with the given name.
var ErrAttributeNotFound = errors.New("attribute not found")

// ErrAttributeExists is returned when creating an attribute whose name is taken.
var ErrAttributeExists = errors.New("attribute already exists")

// ErrInvalidAttributeName is returned for names without an "inputs:", "outputs:" or "state:" namespace,
// and for connection endpoints that are not of the form "node.attribute".
var ErrInvalidAttributeName = errors.New("invalid attribute name")

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrTypeMismatch is returned when a value cannot be stored in an attribute of the resolved type.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrInvalidConnection is returned for connections with the wrong port direction,
// duplicates, and disconnects of connections that do not exist.
var ErrInvalidConnection = errors.New("invalid connection")

// ErrInvalidSnapshotID is returned when a snapshot is saved under an empty ID.
var ErrInvalidSnapshotID = errors.New("invalid snapshot id")
