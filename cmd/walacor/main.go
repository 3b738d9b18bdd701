package main

import "github.com/walacor/walacor-go/cmd/walacor/cmd"

func main() {
	cmd.Execute()
}
