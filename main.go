/*
	Copyright 2026 OpenRegatta contributors
*/

package main

import "github.com/openregatta/regatta-service-manager-go/cmd"

func main() {
	cmd.Execute()
}
