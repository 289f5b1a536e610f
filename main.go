package main

import "github.com/frahmantamala/facility-management/cmd"

func main() {
	cmd.Execute()
}
