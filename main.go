package main

import "github.com/takelab/takecap/cmd"

func main() {
	cmd.Execute()
}
