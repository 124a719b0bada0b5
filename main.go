// The main package for the goodwatch-crawler executable.
package main

import "github.com/goodwatch/goodwatch-crawler/cmd"

func main() {
	cmd.Execute()
}
