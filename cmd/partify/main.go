package main

// Version is set via ldflags during build.
var version = "dev"

func main() {
	Execute()
}
