package main

import "stagecast/server"

func main() {
	server.Main()
}
