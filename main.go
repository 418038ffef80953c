package main

import "product-configurator/cmd"

func main() {
	cmd.Execute()
}
