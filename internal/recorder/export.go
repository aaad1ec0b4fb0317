package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/sim"
)

// RunInfo describes a headless run for export.
type RunInfo struct {
	Params     string            `json:"params"`
	Parameters params.Parameters `json:"parameters"`
	Interval   float64           `json:"interval"`
	Duration   float64           `json:"duration"`
	Controller bool              `json:"controller"`
	Scenario   string            `json:"scenario,omitempty"`
}

// ExportData is the JSON document of a run kept with history.
type ExportData struct {
	RunInfo
	Ticks     int                `json:"ticks"`
	Times     []float64          `json:"times"`
	States    [][]float64        `json:"states"`
	Impulses  []float64          `json:"impulses"`
	Frictions []float64          `json:"frictions"`
	Inputs    []string           `json:"inputs"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewExportData(info RunInfo, result *sim.Result) ExportData {
	data := ExportData{
		RunInfo:   info,
		Ticks:     result.Ticks,
		Times:     result.Times,
		States:    make([][]float64, len(result.States)),
		Impulses:  result.Impulses,
		Frictions: result.Frictions,
		Inputs:    make([]string, len(result.Inputs)),
		Metrics:   result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, in := range result.Inputs {
		data.Inputs[i] = in.String()
	}
	return data
}

// WriteJSON encodes a run as indented JSON.
func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}

// ExportJSON writes a run to path.
func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}
	if err := WriteJSON(file, info, result); err != nil {
		file.Close()
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}
	return file.Close()
}
