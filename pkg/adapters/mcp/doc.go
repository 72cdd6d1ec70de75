// Package mcp exposes the color converter and scene simulation as Model Context Protocol tools.
package mcp
