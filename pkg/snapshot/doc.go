/*
Package snapshot coordinates access to stored graph snapshots.

The Manager serializes writers to the same snapshot ID within a process and,
when given a ports.DistributedLocker, across replicas sharing a store.
*/
package snapshot
