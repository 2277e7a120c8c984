package main

import "github.com/oshokin/sysmaint/cmd/sysmaint/cmd"

func main() {
	cmd.Execute()
}
