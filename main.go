package main

import "github.com/khrees2412/jobhunter/cmd"

func main() {
	cmd.Execute()
}
