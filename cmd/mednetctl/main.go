// Package main содержит точку входа административного CLI (mednetctl).
//
// Все команды реализованы в пакете internal/server/cli.
package main

import "github.com/IvanChernomyrdin/mednet/internal/server/cli"

func main() {
	cli.Execute()
}
