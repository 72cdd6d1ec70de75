/*
Package morenodes is a small collection of node plugins for a node-graph host,
together with a mocked host to run them outside of it.

# Node types

  - morenodes.RGBToHSV converts an rgb triple to hsv using the extension's
    original hue formula (see pkg/colorspace).
  - morenodes.DynamicMatcher forwards dynamic inputs:dataN values to the
    matching outputs:dataN.
  - morenodes.LoggingNode keeps a growing list of inputs:dataInN slots and
    prints the connected ones.

# Usage

Build a registry with the built-in types and run a scene through a Simulator:

	sim := morenodes.New(
		morenodes.WithRegistry(morenodes.NewRegistry()),
		morenodes.WithStore(memory.NewStore()),
	)

	res, err := sim.Simulate(ctx, &domain.Scene{
		Nodes: []domain.SceneNode{{
			Path:   "conv",
			Type:   "morenodes.RGBToHSV",
			Values: map[string]any{"inputs:rgb": []float64{0, 0, 0.5}},
		}},
	}, "first-run")

Scenes can also be read from a YAML/JSON file or a Loam document folder with
NewSceneLoader.
*/
package morenodes
