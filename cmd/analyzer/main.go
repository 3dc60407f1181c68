package main

import "video-analyzer/internal/cli"

func main() {
	cli.Main()
}
