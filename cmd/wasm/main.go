//go:build js && wasm

// Command wasm exposes the PTC control core to the browser via
// WebAssembly. After loading, it registers a global JavaScript function:
//
//	runSupervisor(jsonString) -> jsonString
//
// The input and output are JSON-encoded control.RunInput and
// control.RunOutput respectively, matching the contract used by the CLI.
package main

import (
	"syscall/js"

	"github.com/plarailers/ptc-core/internal/control"
)

func main() {
	js.Global().Set("runSupervisor", js.FuncOf(runSupervisor))
	select {} // keep the WASM module alive until the page is closed
}

func runSupervisor(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := control.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
