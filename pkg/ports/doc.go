/*
Package ports defines the interfaces between the node plugins, the host that runs them,
and the outside world.

# Key Interfaces

  - Node, Attribute, Database: the host object graph as seen by node callbacks.
  - NodeType: the callback set (Initialize, Release, Compute, OnConnected, OnDisconnected) a plugin supplies.
  - SnapshotStore: persistence for evaluated graph snapshots.
  - SceneLoader: sources of scene descriptions.
*/
package ports
