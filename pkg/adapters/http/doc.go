/*
Package http serves the color converter, the node type catalog and scene
simulation over a chi router.

The API is described by the embedded openapi.yaml (served at /openapi.yaml,
browsable at /swagger); JSON request bodies are validated against it with
kin-openapi before they are decoded.
*/
package http
