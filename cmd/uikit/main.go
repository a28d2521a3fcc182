// Package main provides the CLI entrypoint for uikit.
package main

func main() {
	Execute()
}
