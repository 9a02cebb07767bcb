package registry

import (
	"fmt"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var ortInit sync.Once

// The Kokoro graph's fixed tensor names.
var (
	onnxInputs  = []string{"tokens", "style", "speed"}
	onnxOutputs = []string{"audio"}
)

type onnxRunner struct {
	session *ort.DynamicAdvancedSession
}

// newOnnxRunner returns the production RunnerFactory. The shared
// onnxruntime library is initialized once per process.
func newOnnxRunner(libraryPath string) RunnerFactory {
	return func(path string) (Runner, error) {
		var initErr error
		ortInit.Do(func() {
			if libraryPath != "" {
				ort.SetSharedLibraryPath(libraryPath)
			}
			initErr = ort.InitializeEnvironment()
		})
		if initErr != nil && !strings.Contains(initErr.Error(), "already initialized") {
			return nil, fmt.Errorf("initialize onnxruntime: %w", initErr)
		}

		session, err := ort.NewDynamicAdvancedSession(path, onnxInputs, onnxOutputs, nil)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		return &onnxRunner{session: session}, nil
	}
}

// Run feeds tokens (1×n), style row (1×256) and speed (scalar) through
// the graph and copies out the 24 kHz samples.
func (o *onnxRunner) Run(tokens []int64, style []float32, speed float32) ([]float32, error) {
	tokenTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(tokens))), tokens)
	if err != nil {
		return nil, fmt.Errorf("token tensor: %w", err)
	}
	defer tokenTensor.Destroy()

	styleTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(style))), style)
	if err != nil {
		return nil, fmt.Errorf("style tensor: %w", err)
	}
	defer styleTensor.Destroy()

	speedTensor, err := ort.NewTensor(ort.NewShape(1), []float32{speed})
	if err != nil {
		return nil, fmt.Errorf("speed tensor: %w", err)
	}
	defer speedTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := o.session.Run([]ort.Value{tokenTensor, styleTensor, speedTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer out.Destroy()

	data := out.GetData()
	samples := make([]float32, len(data))
	copy(samples, data)
	return samples, nil
}

func (o *onnxRunner) Close() error {
	return o.session.Destroy()
}
