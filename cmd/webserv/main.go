package main

import (
	"os"

	"github.com/jmaris/webserv/internal/app"
)

func main() {
	os.Exit(app.Main(os.Args))
}
