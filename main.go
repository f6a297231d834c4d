package main

import "github.com/Mohsinsiddi/bidcli/cmd"

func main() {
	cmd.Execute()
}
