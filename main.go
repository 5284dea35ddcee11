package main

import "github.com/valory-xyz/olas-predict/cmd"

func main() {
	cmd.Execute()
}
