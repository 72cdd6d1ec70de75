/*
Package domain contains the host object model shared by the node types and the adapters.

It mirrors the vocabulary of the graph runtime that loads the node plugins:
attribute types and ports, execution states, the "inputs:" and "outputs:"
namespaces, and the indexed naming convention ("inputs:data0", "inputs:dataIn3")
that dynamic attributes follow. It also defines the serializable Scene and
GraphSnapshot documents used by the simulation host and the stores.

The package has no dependencies beyond the standard library and performs no I/O.

# Key Entities

  - AttributeSpec / NodeDefinition: static declarations of a node type.
  - Scene: nodes, values and connections to build on a host.
  - GraphSnapshot: a picture of a graph after evaluation, as persisted by stores.
  - LifecycleHooks: observability callbacks fired by the host.
*/
package domain
