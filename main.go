package main

import "github.com/pders01/visreg/cmd"

func main() {
	cmd.Execute()
}
