// ledgerctl is a small operator CLI for a running watermark ledger node.
package main

import "github.com/watermarkd/watermarkd/app/tooling/ledgerctl/commands"

func main() {
	commands.Execute()
}
