package main

import "github.com/LENAX/step-scheduler/pkg/cli/cmd"

func main() {
	cmd.Execute()
}
