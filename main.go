package main

import "offer-reconciler/cmd"

func main() {
	cmd.Execute()
}
