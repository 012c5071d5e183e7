// backend/main.go
package main

import "github.com/smartagri/cropadvisor/backend/cmd"

func main() {
	cmd.Execute()
}
