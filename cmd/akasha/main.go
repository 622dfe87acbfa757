package main

import (
	// Register plugins via side-effects
	_ "akasha/internal/collectors/file"
	_ "akasha/internal/collectors/http"
	_ "akasha/internal/publishers/file"
	_ "akasha/internal/publishers/github"
	_ "akasha/internal/publishers/stdout"
)

func main() {
	Execute()
}
