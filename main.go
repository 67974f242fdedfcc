package main

import "github.com/ivan-hilckov/lucidum/cmd"

func main() {
	cmd.Execute()
}
