package main

import "github.com/jsphweid/cubemidi/cmd"

func main() {
	cmd.Execute()
}
