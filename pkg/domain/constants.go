package domain

// Attribute namespaces, as used by the host runtime.
const (
	InputsPrefix  = "inputs:"
	OutputsPrefix = "outputs:"
	StatePrefix   = "state:"
)

// Well-known execution attributes shared by the built-in node types.
const (
	AttrExecIn  = InputsPrefix + "execIn"
	AttrExecOut = OutputsPrefix + "execOut"
)
