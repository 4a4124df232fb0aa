package main

import "whitelist-sync/cmd"

func main() {
	cmd.Execute()
}
