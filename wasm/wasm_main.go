// ==============================================================================================
// FILE: wasm/wasm_main.go
// BUILD: GOOS=js GOARCH=wasm go build -o main.wasm wasm/wasm_main.go
// ==============================================================================================
// PURPOSE: Exposes a single `runLumen(code)` function to JavaScript, evaluating one source
//          string against a fresh interp.Interpreter and returning its result or error as a
//          plain JS object keyed by "result" or "error".
// ==============================================================================================

package main

import (
	"fmt"
	"syscall/js"

	"github.com/amoghasbhardwaj/lumen/interp"
)

func main() {
	c := make(chan struct{}, 0)

	js.Global().Set("runLumen", js.FuncOf(runCode))

	fmt.Println("lumen WASM engine loaded.")
	<-c
}

// runCode is the bridge between JS and Go. Each call gets its own
// interpreter, so one browser session's definitions never leak into
// another's: the prelude is re-evaluated lazily on first use per call.
func runCode(this js.Value, p []js.Value) interface{} {
	if len(p) == 0 {
		return map[string]interface{}{"error": []interface{}{"runLumen: expected a source string argument"}}
	}
	code := p[0].String()

	it := interp.New()
	sourceID := it.RegisterSource("<wasm>", code)

	value, evalErr := it.Evaluate(sourceID)
	if evalErr != nil {
		return map[string]interface{}{
			"error": []interface{}{it.DescribeError(evalErr)},
		}
	}

	return map[string]interface{}{
		"result": it.Render(value),
	}
}
