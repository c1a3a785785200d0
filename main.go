package main

import "github.com/martinhruz/image-sorter/cmd"

func main() {
	cmd.Execute()
}
