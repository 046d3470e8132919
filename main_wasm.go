//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"clexer/internal/cmd"
)

// clexTokenizeJS is the JavaScript-callable function
func clexTokenizeJS(this js.Value, args []js.Value) interface{} {
	defer func() {
		if r := recover(); r != nil {
			jsConsole := js.Global().Get("console")
			jsConsole.Call("error", "PANIC in lexer:", r)
		}
	}()

	if len(args) < 1 {
		return map[string]interface{}{
			"success": false,
			"error":   "Expected at least 1 argument (code string)",
		}
	}

	code := args[0].String()
	debug := false
	if len(args) > 1 {
		debug = args[1].Bool()
	}

	// no file system in the browser, so the code goes in as a virtual file
	output, err := cmd.TokenizeHTML(code, debug)
	if err != nil {
		return map[string]interface{}{
			"success": false,
			"error":   output,
		}
	}

	return map[string]interface{}{
		"success": true,
		"output":  output,
	}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("clexTokenize", js.FuncOf(clexTokenizeJS))
	js.Global().Set("clexWasmVersion", "v0.1.0")

	fmt.Println("clexer WASM ready")

	<-c
}
