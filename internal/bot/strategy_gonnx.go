package bot

import (
	"fmt"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"gorgonia.org/tensor"
)

// DefaultNeuralModel is used when NeuralModelPath is empty.
const DefaultNeuralModel = "models/connect4_policy.onnx"

// GonnxNetwork runs a column-policy ONNX model with gonnx, a pure Go
// runtime. The model takes one float32 input of shape [1, n] and its first
// output (or "logits") holds one score per column.
type GonnxNetwork struct {
	model  *gonnx.Model
	input  string
	output string
	mu     sync.Mutex
}

// LoadGonnxNetwork loads the model at path.
func LoadGonnxNetwork(path string) (*GonnxNetwork, error) {
	if path == "" {
		path = DefaultNeuralModel
	}
	model, err := gonnx.NewModelFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	input := "board"
	if names := model.InputNames(); len(names) > 0 {
		input = names[0]
	}
	output := "logits"
	if names := model.OutputNames(); len(names) > 0 {
		output = names[0]
	}
	return &GonnxNetwork{model: model, input: input, output: output}, nil
}

// Scores runs the model on an encoded board.
func (g *GonnxNetwork) Scores(input []float32) ([]float32, error) {
	in := tensor.New(
		tensor.WithShape(1, len(input)),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(append([]float32(nil), input...)),
	)

	g.mu.Lock()
	outputs, err := g.model.Run(gonnx.Tensors{g.input: in})
	g.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("policy run: %w", err)
	}

	out, ok := outputs[g.output]
	if !ok {
		for _, v := range outputs {
			out = v
			break
		}
	}
	if out == nil {
		return nil, fmt.Errorf("no output tensor from policy model")
	}

	switch d := out.Data().(type) {
	case []float32:
		return d, nil
	case []float64:
		f32 := make([]float32, len(d))
		for i, v := range d {
			f32[i] = float32(v)
		}
		return f32, nil
	default:
		return nil, fmt.Errorf("unexpected policy output type %T", out.Data())
	}
}

var (
	sharedNetMu   sync.Mutex
	sharedNets    = map[string]*GonnxNetwork{}
	sharedNetErrs = map[string]error{}
)

// loadSharedNetwork loads each model file once per process. GonnxNetwork
// serializes inference, so one instance can serve many strategies. A failed
// load is remembered too, so later games fall back without touching disk.
func loadSharedNetwork(path string) (*GonnxNetwork, error) {
	sharedNetMu.Lock()
	defer sharedNetMu.Unlock()
	if net, ok := sharedNets[path]; ok {
		return net, nil
	}
	if err, ok := sharedNetErrs[path]; ok {
		return nil, err
	}
	net, err := LoadGonnxNetwork(path)
	if err != nil {
		sharedNetErrs[path] = err
		return nil, err
	}
	sharedNets[path] = net
	return net, nil
}
