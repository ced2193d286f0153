package main

import "serve-board.com/serve-board/cmd"

func main() {
	cmd.Execute()
}
