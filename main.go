package main

import "github.com/theirongolddev/cafflog/cmd"

func main() {
	cmd.Execute()
}
