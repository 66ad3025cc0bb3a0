package main

import "github.com/moefra/zako/cmd"

func main() {
	cmd.Execute()
}
