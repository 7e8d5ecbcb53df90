package main

import "github.com/shimono/personium-lib-common/cmd"

func main() {
	cmd.Execute()
}
