package main

import "github.com/voxelview/vx/internal/interfaces/cli"

func main() {
	cli.Execute()
}
