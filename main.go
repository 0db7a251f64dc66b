package main

import (
	"fmt"
	"os"

	accountscmd "fjacquet/txn-ledger/cmd/accounts"
	"fjacquet/txn-ledger/cmd/check"
	"fjacquet/txn-ledger/cmd/classify"
	"fjacquet/txn-ledger/cmd/feedback"
	"fjacquet/txn-ledger/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(feedback.Cmd)
	root.Cmd.AddCommand(accountscmd.Cmd)
	root.Cmd.AddCommand(check.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
