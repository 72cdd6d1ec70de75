// Command morenodes converts colors and simulates morenodes scenes from the
// command line, or serves them over HTTP and MCP.
package main

func main() {
	Execute()
}
