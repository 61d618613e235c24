package main

import "github.com/john-matlock-eng/lifetrack/cmd/lifetrack"

func main() {
	lifetrack.Execute()
}
