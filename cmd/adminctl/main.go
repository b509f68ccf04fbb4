package main

import "github.com/linemk/shop-admin/internal/cli"

func main() {
	cli.Execute()
}
