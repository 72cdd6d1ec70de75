/*
Package dsl provides a Go DSL for building morenodes scenes in code.

It is an alternative to YAML/JSON scene files when a scene is generated or
used in tests. Node insertion order is kept.

Example usage:

	b := dsl.New("palette")

	b.Add("conv", colorconvert.TypeName).
		Set(colorconvert.AttrRGB, []float64{0, 0, 0.5}).
		To(colorconvert.AttrHSV, "log.inputs:dataIn0")

	b.Add("log", loggingnode.TypeName).
		Set("inputs:execIn", "ENABLED")

	sc, err := b.Build()
*/
package dsl
