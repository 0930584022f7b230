package main

import "supportdesk/cli"

func main() {
	cli.Execute()
}
