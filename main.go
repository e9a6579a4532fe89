package main

import "github.com/Harsh-0z/civic-flow-backend/cmd"

func main() {
	cmd.Execute()
}
