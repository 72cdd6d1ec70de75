/*
Package observability provides tools for monitoring the mocked host graph.

It includes Prometheus metrics fed by the graph's lifecycle hooks, structured
logging hooks, and a helper to combine several hook sets into one.
*/
package observability
