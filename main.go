package main

import "github.com/variantdev/heroku-deploy/cmd"

func main() {
	cmd.Execute()
}
