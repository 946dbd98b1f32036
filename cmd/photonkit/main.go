package main

import "github.com/OpenPhotonLab/photonkit/cmd/photonkit/cmd"

func main() {
	cmd.Execute()
}
