//go:build ignore

package main

import (
	"fmt"

	"github.com/zhubert/parley/internal/clipboard"
)

func main() {
	fmt.Println("Testing clipboard round trip...")
	if err := clipboard.WriteText("parley clipboard check"); err != nil {
		fmt.Printf("Write error: %v\n", err)
		return
	}
	text, err := clipboard.ReadText()
	if err != nil {
		fmt.Printf("Read error: %v\n", err)
		return
	}
	fmt.Printf("Read back %d bytes: %q\n", len(text), text)
}
